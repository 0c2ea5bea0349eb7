// Package handler exposes the HTTP app as a serverless function entry point.
package handler

import (
	"log"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/payollar/payollar/infra/initializer"
	"github.com/payollar/payollar/pkg/app"
	"github.com/payollar/payollar/pkg/config"
	"github.com/payollar/payollar/webapi"
)

var (
	once    sync.Once
	handler http.HandlerFunc
)

// Handler is the main entry point of the application.
// Think of it like the main() method
func Handler(w http.ResponseWriter, r *http.Request) {
	// This is needed to set the proper request path in `*fiber.Ctx`
	r.RequestURI = r.URL.String()

	once.Do(func() { handler = build() })
	handler.ServeHTTP(w, r)
}

// build wires the application once per cold start.
func build() http.HandlerFunc {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load application configuration: %v", err)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}
	return adaptor.FiberApp(webapi.SetupApp(app.New(deps, cfg)))
}
