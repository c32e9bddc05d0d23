package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rlin/ambienttracker/internal/store"
)

// RegisterRoutes wires the read-only status handlers into the Fiber app.
// The tracker is a background process; this surface only reports on it.
func RegisterRoutes(app *fiber.App, status *store.Status) {
	v1 := app.Group("/api/v1")

	v1.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(status.Report())
	})
}
