package server

import (
	"jobharvest/internal/harvest"
	"jobharvest/internal/health"

	"github.com/gofiber/fiber/v2"
)

type Dependencies struct {
	Harvest    *harvest.Handler
	Components map[string]health.Checker
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	healthHandler := health.NewHealthHandler(d.Components)
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	api := app.Group("/v1")
	api.Post("/harvest", d.Harvest.HandleCreateRun)
	api.Get("/harvest/:runId", d.Harvest.HandleGetRun)

	return healthHandler
}
