package user

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grillazz/stuff-and-nonsense/internal/pkg/mail"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/response"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/token"
)

type Handler struct {
	svc    *Service
	issuer *token.Issuer
	mailer *mail.Sender
	log    *zap.Logger
}

func NewHandler(svc *Service, issuer *token.Issuer, mailer *mail.Sender, log *zap.Logger) *Handler {
	return &Handler{svc: svc, issuer: issuer, mailer: mailer, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/user")
	users.POST("", h.register)
	users.POST("/token", h.issueToken)
}

type registeredUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AccessToken string `json:"access_token"`
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	u, err := h.svc.Register(&dto)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.Conflict(c, "Email is already registered")
			return
		}
		response.InternalError(c, err)
		return
	}

	tok, err := h.issuer.Issue(c.Request.Context(), u.Email, u.Password, c.Request.UserAgent())
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if h.mailer != nil && h.mailer.Enabled() {
		go func(email, firstName string) {
			if err := h.mailer.SendWelcome(email, mail.WelcomeData{FirstName: firstName, Email: email}); err != nil {
				h.log.Warn("welcome mail failed", zap.String("email", email), zap.Error(err))
			}
		}(u.Email, u.FirstName)
	}

	response.Created(c, registeredUser{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		AccessToken: tok,
	})
}

func (h *Handler) issueToken(c *gin.Context) {
	email := c.PostForm("email")
	plain := c.PostForm("password")
	if email == "" || plain == "" {
		response.UnprocessableEntity(c, "email and password are required")
		return
	}

	u, err := h.svc.Authenticate(email, plain)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(c, "User not found")
		case errors.Is(err, ErrWrongPassword):
			response.Unauthorized(c, "Password is incorrect")
		default:
			response.InternalError(c, err)
		}
		return
	}

	tok, err := h.issuer.Issue(c.Request.Context(), u.Email, u.Password, c.Request.UserAgent())
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Created(c, gin.H{"access_token": tok, "token_type": "bearer"})
}
