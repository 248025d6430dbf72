package chat

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grillazz/stuff-and-nonsense/internal/pkg/response"
)

type frame struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Handler struct {
	provider Provider
	log      *zap.Logger
}

func NewHandler(provider Provider, log *zap.Logger) *Handler {
	return &Handler{provider: provider, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.chat)
}

// chat echoes the prompt as a user frame, then relays model chunks as they
// arrive, one JSON object per line.
func (h *Handler) chat(c *gin.Context) {
	prompt := c.PostForm("prompt")
	if prompt == "" {
		response.UnprocessableEntity(c, "prompt is required")
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)

	flusher, _ := c.Writer.(http.Flusher)
	writeFrame := func(f frame) {
		raw, err := json.Marshal(f)
		if err != nil {
			return
		}
		_, _ = c.Writer.Write(append(raw, '\n'))
		if flusher != nil {
			flusher.Flush()
		}
	}

	writeFrame(frame{Role: "user", Content: prompt})

	err := h.provider.Stream(c.Request.Context(), prompt, func(chunk string) {
		writeFrame(frame{Role: "model", Content: chunk})
	})
	if err != nil {
		// Headers are gone; log and end the stream.
		h.log.Error("chat stream failed", zap.Error(err))
	}
}
