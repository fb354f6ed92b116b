package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"pastebox/internal/service"
)

// Services bundles the use cases the routes depend on.
type Services struct {
	Pastes      service.PasteService
	Bulk        service.BulkService
	Roots       service.RootService
	Maintenance service.MaintenanceService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, s Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/", ListPastes(s.Pastes, s.Roots))
	app.Post("/paste", CreatePaste(s.Pastes))
	app.Get("/file/:id", ServeFile(s.Pastes, false))
	app.Get("/download/:id", ServeFile(s.Pastes, true))
	app.Post("/delete/:id", DeletePaste(s.Pastes))

	app.Post("/bulk-download", BulkDownload(s.Bulk))
	app.Post("/bulk-delete", BulkDelete(s.Bulk))

	app.Get("/settings", GetSettings(s.Roots))
	app.Post("/settings/browse", BrowseDirectory())
	app.Post("/settings/upload-folder", UpdateUploadFolder(s.Roots))

	app.Post("/admin/cleanup", Cleanup(s.Maintenance))
	app.Post("/admin/check-files", CheckFiles(s.Maintenance))
	app.Post("/admin/orphan-files", OrphanFiles(s.Maintenance))
}
