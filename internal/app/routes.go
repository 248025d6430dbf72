package app

import (
	"fmt"
	"time"

	"github.com/grillazz/stuff-and-nonsense/internal/middleware"
	"github.com/grillazz/stuff-and-nonsense/internal/modules/chat"
	"github.com/grillazz/stuff-and-nonsense/internal/modules/health"
	"github.com/grillazz/stuff-and-nonsense/internal/modules/nonsense"
	"github.com/grillazz/stuff-and-nonsense/internal/modules/shakespeare"
	"github.com/grillazz/stuff-and-nonsense/internal/modules/stuff"
	"github.com/grillazz/stuff-and-nonsense/internal/modules/user"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/mail"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/token"
)

const shakespeareCacheTTL = 60 * time.Second

func (a *App) registerRoutes(issuer *token.Issuer, mailer *mail.Sender) error {
	v1 := a.router.Group("/v1")
	authMW := middleware.Auth(issuer)

	user.NewHandler(user.NewService(a.db), issuer, mailer, a.logger).RegisterRoutes(v1)
	health.NewHandler(a.db, a.rdb, mailer).RegisterRoutes(v1, authMW)

	shakespeare.NewHandler(shakespeare.NewService(a.db)).
		RegisterRoutes(v1, middleware.Cache(a.rdb, shakespeareCacheTTL))

	authed := v1.Group("", authMW)
	stuff.NewHandler(stuff.NewService(a.db)).RegisterRoutes(authed)
	nonsense.NewHandler(nonsense.NewService(a.db)).RegisterRoutes(authed)

	provider, err := chat.NewProvider(a.cfg.LLM)
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	chat.NewHandler(provider, a.logger).RegisterRoutes(authed)
	return nil
}
