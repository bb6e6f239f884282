package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/hydrationdev/hydration-os/pkg/config"
)

// JWKSVerifier validates tokens against the provider's published key set. Keys
// are cached and refreshed in the background by jwk.Cache.
type JWKSVerifier struct {
	cache   *jwk.Cache
	url     string
	issuer  string
	skew    time.Duration
	parties []string
	now     func() time.Time
}

// NewJWKSVerifier registers the JWKS endpoint and performs the first fetch so a
// misconfigured URL fails at startup. The cache lives as long as ctx.
func NewJWKSVerifier(ctx context.Context, cfg config.IdentityConfig) (*JWKSVerifier, error) {
	url := strings.TrimSpace(cfg.JWKSURL)
	if url == "" {
		return nil, fmt.Errorf("jwks url is required")
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, fmt.Errorf("issuer is required")
	}

	cache := jwk.NewCache(ctx)
	var opts []jwk.RegisterOption
	if cfg.JWKSRefreshInterval > 0 {
		opts = append(opts, jwk.WithMinRefreshInterval(cfg.JWKSRefreshInterval))
	}
	if err := cache.Register(url, opts...); err != nil {
		return nil, fmt.Errorf("register jwks: %w", err)
	}
	if _, err := cache.Refresh(ctx, url); err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	return &JWKSVerifier{
		cache:   cache,
		url:     url,
		issuer:  cfg.Issuer,
		skew:    cfg.ClockSkew,
		parties: cfg.AuthorizedParties,
		now:     time.Now,
	}, nil
}

func (v *JWKSVerifier) Verify(ctx context.Context, token string) (*IdentityClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	keyset, err := v.cache.Get(ctx, v.url)
	if err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}

	parsed, err := jwt.ParseString(token,
		jwt.WithKeySet(keyset),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAcceptableSkew(v.skew),
		jwt.WithClock(jwt.ClockFunc(v.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, err := parsed.AsMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identityFromClaims(claims, v.parties)
}
