package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hydrationdev/hydration-os/pkg/config"
)

var pemSigningMethod = jwt.SigningMethodRS256

// PEMVerifier validates tokens with a single configured RSA public key.
type PEMVerifier struct {
	key     *rsa.PublicKey
	issuer  string
	skew    time.Duration
	parties []string
	now     func() time.Time
}

func NewPEMVerifier(cfg config.IdentityConfig) (*PEMVerifier, error) {
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, fmt.Errorf("issuer is required")
	}
	// env files commonly carry the key on one line with escaped newlines
	raw := strings.ReplaceAll(strings.TrimSpace(cfg.PublicKeyPEM), `\n`, "\n")
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse identity public key: %w", err)
	}
	return &PEMVerifier{
		key:     key,
		issuer:  cfg.Issuer,
		skew:    cfg.ClockSkew,
		parties: cfg.AuthorizedParties,
		now:     time.Now,
	}, nil
}

func (v *PEMVerifier) Verify(_ context.Context, token string) (*IdentityClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{pemSigningMethod.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithLeeway(v.skew),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)

	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != pemSigningMethod {
			return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identityFromClaims(claims, v.parties)
}
