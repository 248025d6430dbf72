package shakespeare

import (
	"github.com/gin-gonic/gin"

	"github.com/grillazz/stuff-and-nonsense/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the corpus lookup. cacheMW may be nil; when set it
// is expected to short-circuit repeat lookups.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, cacheMW gin.HandlerFunc) {
	handlers := []gin.HandlerFunc{}
	if cacheMW != nil {
		handlers = append(handlers, cacheMW)
	}
	handlers = append(handlers, h.byCharacter)
	rg.GET("/shakespeare", handlers...)
}

func (h *Handler) byCharacter(c *gin.Context) {
	character := c.Query("character")
	if character == "" {
		response.UnprocessableEntity(c, "query parameter character is required")
		return
	}

	paragraphs, err := h.svc.ParagraphsByCharacter(character)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, paragraphs)
}
