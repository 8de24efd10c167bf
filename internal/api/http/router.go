package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/velodesk/repair-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration. Uploads is
// optional; without an S3 bucket the presign endpoint is not exposed.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Tickets    *handlers.TicketsHandler
	Warranties *handlers.WarrantiesHandler
	Uploads    *handlers.UploadsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	tickets := api.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)

	warranties := api.Group("/warranties")
	warranties.Get("/", cfg.Warranties.ListWarranties)
	warranties.Post("/", cfg.Warranties.CreateWarranty)
	warranties.Get("/:id", cfg.Warranties.GetWarranty)
	warranties.Patch("/:id", cfg.Warranties.UpdateWarranty)
	warranties.Delete("/:id", cfg.Warranties.DeleteWarranty)

	if cfg.Uploads != nil {
		api.Post("/uploads/presign", cfg.Uploads.Presign)
	}
}
