package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/joemans3/TandemLaunch-Scouting-DB/database"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/response"
)

// HandleCheckHealth answers the liveness probe; a dead store makes it 503
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.ServiceUnavailable(c, "Database unreachable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
