package http

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// My Location dashboard
		api.Get("/dashboard", handler.GetDashboard)
		api.Post("/dashboard/refresh", handler.RefreshDashboard)

		api.Get("/location", handler.GetLocation)
		api.Post("/location", handler.RequestLocation)

		// City pages and search
		api.Get("/city/:cityName", handler.GetCity)
		api.Get("/search", handler.SearchLocations)
	}
}
