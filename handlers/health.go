package handlers

import (
	"github.com/campusjobs/jobboard-api/database"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// HandleCheckHealth reports whether the database is reachable.
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return apperror.Internal(err, "Database unavailable")
	}
	return response.Success(c, fiber.Map{"status": "ok", "database": "ok"})
}
