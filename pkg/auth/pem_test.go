package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hydrationdev/hydration-os/pkg/config"
)

const testIssuer = "https://clerk.hydration.test"

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return key
}

func publicPEM(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newTestPEMVerifier(t *testing.T, key *rsa.PrivateKey, parties ...string) *PEMVerifier {
	t.Helper()
	verifier, err := NewPEMVerifier(config.IdentityConfig{
		Issuer:            testIssuer,
		PublicKeyPEM:      publicPEM(t, key),
		ClockSkew:         5 * time.Second,
		AuthorizedParties: parties,
	})
	if err != nil {
		t.Fatalf("NewPEMVerifier: %v", err)
	}
	return verifier
}

func TestPEMVerifierAcceptsValidToken(t *testing.T) {
	key := newRSAKey(t)
	verifier := newTestPEMVerifier(t, key)
	now := time.Now()

	token := signRS256(t, key, jwt.MapClaims{
		"sub":        "user_2abc",
		"iss":        testIssuer,
		"iat":        now.Unix(),
		"exp":        now.Add(time.Minute).Unix(),
		"email":      "a@b.com",
		"given_name": "Ada",
		"picture":    "https://img.example/ada.png",
	})

	claims, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user_2abc" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.Email == nil || *claims.Email != "a@b.com" {
		t.Fatalf("expected email claim, got %v", claims.Email)
	}
	if claims.FirstName == nil || *claims.FirstName != "Ada" {
		t.Fatalf("expected given_name fallback, got %v", claims.FirstName)
	}
	if claims.LastName != nil {
		t.Fatalf("expected nil last name, got %q", *claims.LastName)
	}
	if claims.AvatarURL == nil || !strings.HasSuffix(*claims.AvatarURL, "ada.png") {
		t.Fatalf("expected picture fallback, got %v", claims.AvatarURL)
	}
}

func TestPEMVerifierRejectsBadTokens(t *testing.T) {
	key := newRSAKey(t)
	other := newRSAKey(t)
	verifier := newTestPEMVerifier(t, key, "https://app.hydration.test")
	now := time.Now()

	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub": "user_2abc",
			"iss": testIssuer,
			"iat": now.Unix(),
			"exp": now.Add(time.Minute).Unix(),
		}
	}

	expired := base()
	expired["exp"] = now.Add(-time.Minute).Unix()

	wrongIssuer := base()
	wrongIssuer["iss"] = "https://evil.test"

	noSubject := base()
	delete(noSubject, "sub")

	foreignParty := base()
	foreignParty["azp"] = "https://evil.test"

	cases := map[string]string{
		"expired":       signRS256(t, key, expired),
		"wrong issuer":  signRS256(t, key, wrongIssuer),
		"wrong key":     signRS256(t, other, base()),
		"no subject":    signRS256(t, key, noSubject),
		"foreign party": signRS256(t, key, foreignParty),
		"garbage":       "not-a-jwt",
		"empty":         "",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), token)
			if err == nil {
				t.Fatal("expected verification error")
			}
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestPEMVerifierRejectsHMACTokens(t *testing.T) {
	key := newRSAKey(t)
	verifier := newTestPEMVerifier(t, key)
	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_2abc",
		"iss": testIssuer,
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign hmac: %v", err)
	}
	if _, err := verifier.Verify(context.Background(), hmac); err == nil {
		t.Fatal("expected HS256 token to be rejected")
	}
}

func TestNewPEMVerifierAcceptsEscapedNewlines(t *testing.T) {
	key := newRSAKey(t)
	escaped := strings.ReplaceAll(publicPEM(t, key), "\n", `\n`)
	if _, err := NewPEMVerifier(config.IdentityConfig{Issuer: testIssuer, PublicKeyPEM: escaped}); err != nil {
		t.Fatalf("expected escaped PEM to parse: %v", err)
	}
	if _, err := NewPEMVerifier(config.IdentityConfig{Issuer: testIssuer, PublicKeyPEM: "garbage"}); err == nil {
		t.Fatal("expected invalid PEM to fail")
	}
}

func TestNewVerifierSelectsPEM(t *testing.T) {
	key := newRSAKey(t)
	verifier, err := NewVerifier(context.Background(), config.IdentityConfig{
		Issuer:       testIssuer,
		PublicKeyPEM: publicPEM(t, key),
		JWKSURL:      "http://127.0.0.1:1/unused",
	})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if _, ok := verifier.(*PEMVerifier); !ok {
		t.Fatalf("expected PEM verifier, got %T", verifier)
	}
}
