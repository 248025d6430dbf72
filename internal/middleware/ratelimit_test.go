package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grillazz/stuff-and-nonsense/internal/config"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/redis"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/session"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/token"
)

func newLimitedRouter(t *testing.T) (*gin.Engine, *token.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	rdb := redis.Wrap(raw)

	issuer, err := token.NewIssuer(session.NewRedisStore(rdb), config.TokenConfig{Algorithm: "HS256", ExpireSeconds: 3600})
	require.NoError(t, err)

	r := gin.New()
	r.Use(RateLimit(rdb, issuer))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r, issuer
}

func TestRateLimitThrottlesAnonymousTraffic(t *testing.T) {
	r, _ := newLimitedRouter(t)

	// 150 back-to-back requests span at most two one-second windows, so at
	// least one window must blow past the limit.
	throttled := 0
	for i := 0; i < 150; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code == http.StatusTooManyRequests {
			throttled++
		}
	}
	assert.Positive(t, throttled)
}

func TestRateLimitExemptsAuthenticatedTraffic(t *testing.T) {
	r, issuer := newLimitedRouter(t)

	tok, err := issuer.Issue(context.Background(), "joe@example.com", "stored-hash", "test-agent")
	require.NoError(t, err)

	for i := 0; i < 150; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitIgnoresInvalidBearer(t *testing.T) {
	r, _ := newLimitedRouter(t)

	throttled := 0
	for i := 0; i < 150; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer not-a-real-token")
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			throttled++
		}
	}
	assert.Positive(t, throttled)
}
