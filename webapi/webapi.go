// Package webapi provides the HTTP surface of the payout back office.
// It is organized into sub-packages:
// - admin: payout approval and admin views
// - auth: authentication endpoints
// - common: response envelopes and request binding
package webapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/payollar/payollar/docs"
	"github.com/payollar/payollar/pkg/app"
	"github.com/payollar/payollar/pkg/config"
	adminweb "github.com/payollar/payollar/webapi/admin"
	authweb "github.com/payollar/payollar/webapi/auth"
	"github.com/payollar/payollar/webapi/common"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(app *app.App) *fiber.App {
	server := app.Config.Server
	if server == nil {
		server = &config.Server{}
	}
	fiberApp := fiber.New(fiber.Config{
		ProxyHeader:             server.ProxyHeader,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          server.TrustedProxies,
		EnableIPValidation:      true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ProblemDetailsJSON(c, fe.Message, nil, fe.Code)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		WithCredentials:      true,
		PersistAuthorization: true,
	}))
	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Keyed by c.IP(): the proxy header counts only from a trusted proxy.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        app.Config.RateLimit.MaxRequests,
		Expiration: app.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				nil,
				"rate limit exceeded",
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get(
		"/",
		func(c *fiber.Ctx) error {
			return c.SendString("Payollar API is running! 🚀")
		},
	)

	authweb.Routes(fiberApp, app.AuthService)
	adminweb.Routes(fiberApp, app.AdminService, app.AuthService, app.Config)
	return fiberApp
}
