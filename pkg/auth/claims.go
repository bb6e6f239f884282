package auth

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// IdentityClaims are the verified facts a session token carries about the caller.
// Optional profile claims are nil when the provider omitted them.
type IdentityClaims struct {
	Subject         string
	Email           *string
	FirstName       *string
	LastName        *string
	AvatarURL       *string
	AuthorizedParty string
	ExpiresAt       time.Time
}

// identityFromClaims maps a validated token body onto IdentityClaims. Providers
// disagree on claim names, so both the session-token and OIDC spellings are read.
func identityFromClaims(claims map[string]any, authorizedParties []string) (*IdentityClaims, error) {
	subject := strings.TrimSpace(stringClaim(claims, "sub"))
	if subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	azp := strings.TrimSpace(stringClaim(claims, "azp"))
	if azp != "" && len(authorizedParties) > 0 && !slices.Contains(authorizedParties, azp) {
		return nil, fmt.Errorf("%w: unauthorized party %q", ErrInvalidToken, azp)
	}

	identity := &IdentityClaims{
		Subject:         subject,
		Email:           optionalClaim(claims, "email"),
		FirstName:       optionalClaim(claims, "first_name", "given_name"),
		LastName:        optionalClaim(claims, "last_name", "family_name"),
		AvatarURL:       optionalClaim(claims, "image_url", "picture"),
		AuthorizedParty: azp,
	}
	if exp, ok := claims["exp"]; ok {
		identity.ExpiresAt = timeClaim(exp)
	}
	return identity, nil
}

func stringClaim(claims map[string]any, name string) string {
	if value, ok := claims[name].(string); ok {
		return value
	}
	return ""
}

func optionalClaim(claims map[string]any, names ...string) *string {
	for _, name := range names {
		if value := strings.TrimSpace(stringClaim(claims, name)); value != "" {
			return &value
		}
	}
	return nil
}

func timeClaim(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v.UTC()
	case float64:
		return time.Unix(int64(v), 0).UTC()
	case int64:
		return time.Unix(v, 0).UTC()
	default:
		return time.Time{}
	}
}
