package auth

import (
	"context"
	"errors"

	"github.com/hydrationdev/hydration-os/pkg/config"
)

// ErrInvalidToken wraps every verification failure caused by the token itself.
var ErrInvalidToken = errors.New("invalid identity token")

// Verifier validates a provider-issued session token.
type Verifier interface {
	Verify(ctx context.Context, token string) (*IdentityClaims, error)
}

// NewVerifier selects networkless PEM verification when a public key is
// configured and falls back to the provider's JWKS endpoint otherwise.
func NewVerifier(ctx context.Context, cfg config.IdentityConfig) (Verifier, error) {
	if cfg.UsesPEM() {
		return NewPEMVerifier(cfg)
	}
	return NewJWKSVerifier(ctx, cfg)
}
