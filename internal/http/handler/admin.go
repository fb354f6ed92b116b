package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"pastebox/internal/service"
)

// Cleanup godoc
// @Summary  Remove records whose file is missing
// @Tags     admin
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /admin/cleanup [post]
func Cleanup(maint service.MaintenanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := maint.Sweep(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":       true,
			"message":       fmt.Sprintf("Cleanup completed. Removed %d orphaned entries.", n),
			"cleanup_count": n,
		})
	}
}

// CheckFiles godoc
// @Summary  Check for missing files and prune their records
// @Tags     admin
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /admin/check-files [post]
func CheckFiles(maint service.MaintenanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := maint.Sweep(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		msg := "All files present"
		if n > 0 {
			msg = fmt.Sprintf("Found %d missing files", n)
		}
		return c.JSON(fiber.Map{"success": true, "message": msg, "cleanup_count": n})
	}
}

// OrphanFiles godoc
// @Summary      Remove files no record references
// @Tags         admin
// @Produce      json
// @Param        dry_run  query  string  false  "1 to only report"
// @Success      200  {object}  service.OrphanReport
// @Router       /admin/orphan-files [post]
func OrphanFiles(maint service.MaintenanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := maint.SweepOrphanFiles(c.UserContext(), c.QueryBool("dry_run"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(report)
	}
}
