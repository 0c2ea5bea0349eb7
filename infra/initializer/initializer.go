package initializer

import (
	"fmt"
	"log/slog"

	"github.com/payollar/payollar/infra"
	infracache "github.com/payollar/payollar/infra/cache"
	"github.com/payollar/payollar/infra/migrations"
	"github.com/payollar/payollar/pkg/app"
	"github.com/payollar/payollar/pkg/cache"
	"github.com/payollar/payollar/pkg/config"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	deps = &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := migrations.Up(sqlDB); err != nil {
			return nil, err
		}
		logger.Info("Database schema is up to date")
	}

	// Initialize unit of work
	deps.Uow = infra.NewUoW(db)

	views, err := newViewCache(cfg.Redis, logger)
	if err != nil {
		return nil, err
	}
	deps.ViewCache = views
	deps.Revalidator = views

	return
}

type viewCache interface {
	cache.PayoutViewCache
	cache.Revalidator
}

// newViewCache picks Redis when a URL is configured and falls back to the
// process-local cache otherwise.
func newViewCache(cfg *config.Redis, logger *slog.Logger) (viewCache, error) {
	if cfg == nil || cfg.URL == "" {
		logger.Info("Using in-memory payout view cache")
		return infracache.NewMemoryCache(), nil
	}
	c, err := infracache.NewRedisCache(cfg.URL, cfg.KeyPrefix, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cache: %w", err)
	}
	logger.Info("Using Redis payout view cache")
	return c, nil
}
