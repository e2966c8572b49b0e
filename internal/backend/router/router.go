package router

import (
	"messenger_service/internal/backend/app"
	"messenger_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes health, debug toggle and the generic collection routes
func RegisterRoutes(r *fiber.App, h *app.ResourceHandler) {
	r.Use(middlewares.CORS(), middlewares.NoCache())

	r.Get("/", app.ConnectCheck)
	r.Post("/debug", app.DebugLogFlag)

	r.Get("/:collection", h.List)
	r.Post("/:collection", h.Create)
	r.Get("/:collection/:id", h.Get)
	r.Patch("/:collection/:id", h.Patch)
	r.Delete("/:collection/:id", h.Delete)
}

// New fiber app with the routes registered
func New(h *app.ResourceHandler) *fiber.App {
	r := fiber.New(fiber.Config{
		AppName:               "messenger backend",
		Immutable:             true,
		DisableStartupMessage: true,
	})
	RegisterRoutes(r, h)
	return r
}
