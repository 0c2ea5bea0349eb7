package app

import (
	"log/slog"

	"github.com/payollar/payollar/pkg/cache"
	"github.com/payollar/payollar/pkg/config"
	"github.com/payollar/payollar/pkg/repository"
	"github.com/payollar/payollar/pkg/service/admin"
	"github.com/payollar/payollar/pkg/service/auth"
	"github.com/payollar/payollar/pkg/service/user"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Uow repository.UnitOfWork
	// ViewCache holds the pending-payout listing. Nil disables caching.
	ViewCache cache.PayoutViewCache
	// Revalidator is notified after approvals commit. Nil disables it.
	Revalidator cache.Revalidator
	Logger      *slog.Logger
}

type App struct {
	Deps         *Deps
	Config       *config.App
	AuthService  *auth.Service
	UserService  *user.Service
	AdminService *admin.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}

	authMap := map[string]func() *auth.Service{
		"jwt": func() *auth.Service {
			return auth.NewWithJWT(deps.Uow, cfg.Auth.Jwt, deps.Logger)
		},
	}
	if authFactory, ok := authMap[cfg.Auth.Strategy]; ok {
		app.AuthService = authFactory()
	} else {
		app.AuthService = auth.NewWithBasic(deps.Uow, deps.Logger)
	}
	app.UserService = user.New(deps.Uow, deps.Logger)

	var opts []admin.Option
	if deps.ViewCache != nil {
		ttl := admin.DefaultViewTTL
		if cfg.Cache != nil {
			ttl = cfg.Cache.TTL
		}
		opts = append(opts, admin.WithViewCache(deps.ViewCache, ttl))
	}
	if deps.Revalidator != nil {
		opts = append(opts, admin.WithRevalidator(deps.Revalidator))
	}
	app.AdminService = admin.New(deps.Uow, deps.Logger, opts...)
	return app
}
