package stuff

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/grillazz/stuff-and-nonsense/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	st := rg.Group("/stuff")
	st.POST("", h.create)
	st.POST("/add_many", h.createMany)
	st.POST("/random", h.createRandom)
	st.GET("/:name", h.get)
	st.PATCH("/:name", h.update)
	st.DELETE("/:name", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateStuffDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	st, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			response.Conflict(c, "Stuff with this name already exists")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, st)
}

func (h *Handler) createMany(c *gin.Context) {
	var dtos []CreateStuffDTO
	if err := c.ShouldBindJSON(&dtos); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	if len(dtos) == 0 {
		response.UnprocessableEntity(c, "empty batch")
		return
	}
	rows, err := h.svc.CreateMany(dtos)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			response.Conflict(c, "Stuff with this name already exists")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, rows)
}

func (h *Handler) createRandom(c *gin.Context) {
	var chaos map[string]interface{}
	if err := c.ShouldBindJSON(&chaos); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	rs, err := h.svc.CreateRandom(chaos)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, rs)
}

func (h *Handler) get(c *gin.Context) {
	st, err := h.svc.GetByName(c.Param("name"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Stuff not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, st)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateStuffDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	st, err := h.svc.Update(c.Param("name"), &dto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Stuff not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, st)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("name")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Stuff not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
