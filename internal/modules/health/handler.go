package health

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/grillazz/stuff-and-nonsense/internal/pkg/mail"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/redis"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/response"
)

type Handler struct {
	db     *gorm.DB
	rdb    *redis.Client
	mailer *mail.Sender
}

func NewHandler(db *gorm.DB, rdb *redis.Client, mailer *mail.Sender) *Handler {
	return &Handler{db: db, rdb: rdb, mailer: mailer}
}

// RegisterRoutes mounts the probe endpoints twice: under /public/health
// without auth, and under /health behind the bearer middleware. The bare
// /health liveness probe stays public for load balancers.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/health", h.liveness)

	h.mount(rg.Group("/public/health"))
	h.mount(rg.Group("/health", authMW))
}

func (h *Handler) mount(g *gin.RouterGroup) {
	g.GET("/redis", h.redisInfo)
	g.POST("/email", h.sendEmail)
}

func (h *Handler) liveness(c *gin.Context) {
	dbStatus, redisStatus := "up", "up"

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "down"
	}
	if h.rdb == nil || h.rdb.Ping(c.Request.Context()) != nil {
		redisStatus = "down"
	}

	status := http.StatusOK
	if dbStatus == "down" || redisStatus == "down" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"database": dbStatus, "redis": redisStatus})
}

func (h *Handler) redisInfo(c *gin.Context) {
	raw, err := h.rdb.Info(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}

	info := map[string]string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if key, value, found := strings.Cut(line, ":"); found {
			info[key] = value
		}
	}
	response.OK(c, info)
}

func (h *Handler) sendEmail(c *gin.Context) {
	recipients := strings.Split(c.Query("recipients"), ",")
	cleaned := recipients[:0]
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) == 0 {
		response.UnprocessableEntity(c, "query parameter recipients is required")
		return
	}

	subject := c.Query("subject")
	if subject == "" {
		subject = "Health check"
	}
	sender := strings.TrimSpace(c.Query("sender"))

	err := h.mailer.SendHealthTest(sender, cleaned, subject, mail.HealthTestData{
		Message: c.Query("body_text"),
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}

	result := gin.H{"sent": true, "recipients": cleaned, "subject": subject}
	if sender != "" {
		result["sender"] = sender
	}
	response.OK(c, result)
}
