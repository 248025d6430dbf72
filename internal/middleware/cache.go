package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grillazz/stuff-and-nonsense/internal/pkg/redis"
)

const cachePrefix = "san:http-cache:"

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	BodyBase64  string `json:"body_base64"`
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.body = append(w.body, data...)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, s...)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves GET responses from Redis for ttl, keyed by request URI.
// Only 200 responses are stored.
func Cache(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cachePrefix + c.Request.URL.RequestURI()
		ctx := c.Request.Context()

		if raw, err := rdb.Get(ctx, key); err == nil && raw != "" {
			var payload cachedResponse
			if err := json.Unmarshal([]byte(raw), &payload); err == nil {
				if body, err := base64.StdEncoding.DecodeString(payload.BodyBase64); err == nil {
					contentType := payload.ContentType
					if contentType == "" {
						contentType = "application/json; charset=utf-8"
					}
					c.Header("X-Cache", "hit")
					c.Data(payload.Status, contentType, body)
					c.Abort()
					return
				}
			}
		}

		buffer := &cacheBodyWriter{ResponseWriter: c.Writer}
		c.Writer = buffer
		c.Next()

		if c.Writer.Status() != http.StatusOK || len(buffer.body) == 0 {
			return
		}

		payload := cachedResponse{
			Status:      http.StatusOK,
			ContentType: c.Writer.Header().Get("Content-Type"),
			BodyBase64:  base64.StdEncoding.EncodeToString(buffer.body),
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return
		}
		_ = rdb.Set(ctx, key, raw, ttl)
	}
}
