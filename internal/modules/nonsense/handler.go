package nonsense

import (
	"encoding/csv"
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
	ns := rg.Group("/nonsense")
	ns.POST("", h.create)
	ns.PUT("", h.upsert)
	ns.GET("", h.get)
	ns.PATCH("", h.update)
	ns.DELETE("", h.delete)
	ns.POST("/import", h.importXLSX)

	rg.POST("/upload/csv", h.uploadCSV)
}

func requireName(c *gin.Context) (string, bool) {
	name := c.Query("name")
	if name == "" {
		response.UnprocessableEntity(c, "query parameter name is required")
		return "", false
	}
	return name, true
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateNonsenseDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	n, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			response.Conflict(c, "Nonsense with this name already exists")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, n)
}

func (h *Handler) upsert(c *gin.Context) {
	var dto CreateNonsenseDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	n, err := h.svc.Upsert(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, n)
}

func (h *Handler) get(c *gin.Context) {
	name, ok := requireName(c)
	if !ok {
		return
	}
	n, err := h.svc.GetByName(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Nonsense not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, n)
}

func (h *Handler) update(c *gin.Context) {
	name, ok := requireName(c)
	if !ok {
		return
	}
	var dto UpdateNonsenseDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	n, err := h.svc.Update(name, &dto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Nonsense not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, n)
}

func (h *Handler) delete(c *gin.Context) {
	name, ok := requireName(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(name); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Nonsense not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) importXLSX(c *gin.Context) {
	fh, err := c.FormFile("upload_file")
	if err != nil {
		response.UnprocessableEntity(c, "upload_file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	imported, err := h.svc.ImportXLSX(f)
	if err != nil {
		if errors.Is(err, ErrBadSheet) {
			response.UnprocessableEntity(c, `workbook must contain a "New Nonsense" sheet`)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"filename": fh.Filename, "nonsense_records": imported})
}

// uploadCSV parses an uploaded csv and reports what it saw. Rows are not
// persisted; the endpoint exists for clients to validate exports before an
// xlsx import.
func (h *Handler) uploadCSV(c *gin.Context) {
	fh, err := c.FormFile("upload_file")
	if err != nil {
		response.UnprocessableEntity(c, "upload_file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.OK(c, gin.H{"filename": fh.Filename, "rows": len(records)})
}
