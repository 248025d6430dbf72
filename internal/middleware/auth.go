package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/grillazz/stuff-and-nonsense/internal/pkg/response"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/token"
)

const (
	ContextKeyEmail    = "auth_email"
	ContextKeyPlatform = "auth_platform"
)

// Auth returns a middleware that enforces bearer-token authentication.
// Only the Bearer scheme is accepted; all failures are 403, matching the
// behavior clients of this API already depend on.
func Auth(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			response.Forbidden(c, "Not authenticated")
			return
		}

		scheme, credentials, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(credentials) == "" {
			response.Forbidden(c, "Invalid authentication credentials")
			return
		}

		payload, ok, err := issuer.Verify(c.Request.Context(), strings.TrimSpace(credentials))
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if !ok {
			response.Forbidden(c, "Invalid token or expired token.")
			return
		}

		c.Set(ContextKeyEmail, payload.Email)
		c.Set(ContextKeyPlatform, payload.Platform)
		c.Next()
	}
}

// CurrentEmail extracts the authenticated user's email from context.
func CurrentEmail(c *gin.Context) string {
	v, _ := c.Get(ContextKeyEmail)
	email, _ := v.(string)
	return email
}
