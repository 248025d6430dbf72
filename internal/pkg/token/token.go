package token

import (
	"context"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/grillazz/stuff-and-nonsense/internal/config"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/session"
)

// Issuer mints bearer tokens and records them in the session store. Each
// token is signed with the owner's password hash, so a password change
// invalidates anything signed before it.
type Issuer struct {
	store session.Store
	ttl   time.Duration
	alg   *jwtlib.SigningMethodHMAC
}

func NewIssuer(store session.Store, cfg config.TokenConfig) (*Issuer, error) {
	var alg *jwtlib.SigningMethodHMAC
	switch cfg.Algorithm {
	case "HS256":
		alg = jwtlib.SigningMethodHS256
	case "HS384":
		alg = jwtlib.SigningMethodHS384
	case "HS512":
		alg = jwtlib.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported token algorithm: %s", cfg.Algorithm)
	}
	return &Issuer{store: store, ttl: cfg.TTL(), alg: alg}, nil
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a token for email using the given signing secret and records
// it in the store. The token is only returned once the store write has
// succeeded; a token that was never stored must never reach a client, since
// verification is store-presence only.
func (i *Issuer) Issue(ctx context.Context, email, secret, platform string) (string, error) {
	expiry := float64(time.Now().Add(i.ttl).UnixNano()) / 1e9
	claims := jwtlib.MapClaims{
		"email":    email,
		"expiry":   expiry,
		"platform": platform,
	}

	signed, err := jwtlib.NewWithClaims(i.alg, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("token signing failed: %w", err)
	}

	payload := session.Payload{Email: email, Expiry: expiry, Platform: platform}
	if err := i.store.Put(ctx, signed, payload, i.ttl); err != nil {
		return "", fmt.Errorf("token store write failed: %w", err)
	}
	return signed, nil
}

// Verify accepts a token iff it is present in the store. The signature is
// not re-checked: a stored token was signed by us, and the store TTL is the
// sole authority on expiry.
func (i *Issuer) Verify(ctx context.Context, tok string) (session.Payload, bool, error) {
	return i.store.Get(ctx, tok)
}
