package token

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	jwtlib "github.com/golang-jwt/jwt/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grillazz/stuff-and-nonsense/internal/config"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/redis"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/session"
)

func newTestIssuer(t *testing.T, expireSeconds int) (*Issuer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := session.NewRedisStore(redis.Wrap(rdb))
	issuer, err := NewIssuer(store, config.TokenConfig{Algorithm: "HS256", ExpireSeconds: expireSeconds})
	require.NoError(t, err)
	return issuer, mr
}

func TestNewIssuerRejectsUnknownAlgorithm(t *testing.T) {
	_, err := NewIssuer(nil, config.TokenConfig{Algorithm: "RS256", ExpireSeconds: 60})
	assert.Error(t, err)
}

func TestIssueProducesVerifiableToken(t *testing.T) {
	issuer, _ := newTestIssuer(t, 3600)
	ctx := context.Background()

	tok, err := issuer.Issue(ctx, "joe@example.com", "$2b$12$somestoredpasswordhash", "test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	payload, ok, err := issuer.Verify(ctx, tok)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "joe@example.com", payload.Email)
	assert.Equal(t, "test-agent", payload.Platform)
	assert.Greater(t, payload.Expiry, float64(time.Now().Unix()))
}

func TestIssueSignsWithGivenSecret(t *testing.T) {
	issuer, _ := newTestIssuer(t, 3600)

	secret := "$2b$12$somestoredpasswordhash"
	tok, err := issuer.Issue(context.Background(), "joe@example.com", secret, "test-agent")
	require.NoError(t, err)

	parsed, err := jwtlib.Parse(tok, func(t *jwtlib.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwtlib.WithoutClaimsValidation())
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwtlib.MapClaims)
	assert.Equal(t, "joe@example.com", claims["email"])
	assert.Equal(t, "test-agent", claims["platform"])

	_, err = jwtlib.Parse(tok, func(t *jwtlib.Token) (interface{}, error) {
		return []byte("a-different-secret"), nil
	}, jwtlib.WithoutClaimsValidation())
	assert.Error(t, err)
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	issuer, _ := newTestIssuer(t, 3600)

	// Well-formed and self-consistent, but never issued by us.
	forged, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"email":    "joe@example.com",
		"expiry":   float64(time.Now().Add(time.Hour).Unix()),
		"platform": "test-agent",
	}).SignedString([]byte("attacker-secret"))
	require.NoError(t, err)

	_, ok, err := issuer.Verify(context.Background(), forged)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer, mr := newTestIssuer(t, 60)
	ctx := context.Background()

	tok, err := issuer.Issue(ctx, "joe@example.com", "secret", "test-agent")
	require.NoError(t, err)

	_, ok, err := issuer.Verify(ctx, tok)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)

	_, ok, err = issuer.Verify(ctx, tok)
	require.NoError(t, err)
	assert.False(t, ok)
}
