package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grillazz/stuff-and-nonsense/internal/pkg/redis"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/token"
)

const (
	rateLimitMax    = 50
	rateLimitWindow = time.Second
)

// RateLimit enforces a per-IP limit of 50 requests per second on anonymous
// traffic, counted in one-second Redis windows. Requests carrying a valid
// bearer token are exempt. Fails open if Redis is unavailable.
func RateLimit(rdb *redis.Client, issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if rdb == nil || ip == "" {
			c.Next()
			return
		}
		if hasValidBearer(c, issuer) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("san:rate-limit:%s:%d", ip, time.Now().Unix())

		count, err := rdb.Raw().Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rdb.Raw().PExpire(ctx, key, rateLimitWindow+time.Second)
		}

		if count > rateLimitMax {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":      0,
				"code":    http.StatusTooManyRequests,
				"message": "Too many requests, slow down.",
			})
			return
		}

		c.Next()
	}
}

func hasValidBearer(c *gin.Context, issuer *token.Issuer) bool {
	if issuer == nil {
		return false
	}
	scheme, credentials, found := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return false
	}
	_, ok, err := issuer.Verify(c.Request.Context(), strings.TrimSpace(credentials))
	return err == nil && ok
}
