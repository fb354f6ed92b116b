package handler

import (
	"errors"
	"io/fs"
	"slices"

	"github.com/gofiber/fiber/v2"

	"pastebox/internal/browse"
	"pastebox/internal/service"
)

const maxBrowseDepth = 3

// GetSettings godoc
// @Summary  Current storage root and first-run flag
// @Tags     settings
// @Produce  json
// @Success  200  {object}  service.RootSettings
// @Router   /settings [get]
func GetSettings(roots service.RootService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := roots.Current(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(s)
	}
}

type browseRequest struct {
	Path  string `json:"path"`
	Depth int    `json:"depth"`
}

// BrowseDirectory godoc
// @Summary      List subdirectories for the folder picker
// @Description  Empty path lists filesystem roots. depth > 1 adds a flattened tree.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  browseRequest  true  "Directory to list"
// @Success      200  {object}  browse.Listing
// @Failure      400  {object}  errorPayload
// @Failure      403  {object}  errorPayload
// @Router       /settings/browse [post]
func BrowseDirectory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req browseRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		l, err := browse.List(req.Path)
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrInvalid):
			return writeError(c, fiber.StatusBadRequest, "PATH_NOT_FOUND", "path does not exist or is not a directory")
		case errors.Is(err, fs.ErrPermission):
			return writeError(c, fiber.StatusForbidden, "PERMISSION_DENIED", "permission denied to access this directory")
		default:
			return writeServiceError(c, err)
		}

		body := fiber.Map{
			"success":          true,
			"items":            l.Items,
			"current_path":     l.CurrentPath,
			"parent_path":      l.ParentPath,
			"current_writable": l.CurrentWritable,
		}
		if req.Depth > 1 && l.CurrentPath != "" {
			body["tree"] = slices.Collect(browse.Walk(l.CurrentPath, min(req.Depth, maxBrowseDepth)))
		}
		return c.JSON(body)
	}
}

type uploadFolderRequest struct {
	Path    string `json:"path"`
	IsSetup bool   `json:"is_setup"`
}

// UpdateUploadFolder godoc
// @Summary      Change the storage root
// @Description  Moves existing files unless is_setup, then commits the root, restarts the watcher and sweeps.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  uploadFolderRequest  true  "New root"
// @Success      200  {object}  service.ChangeRootResult
// @Failure      400  {object}  errorPayload
// @Router       /settings/upload-folder [post]
func UpdateUploadFolder(roots service.RootService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req uploadFolderRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := roots.ChangeRoot(c.UserContext(), req.Path, req.IsSetup)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":           true,
			"message":           res.Message,
			"path":              res.Path,
			"migration_details": res.Migration,
			"cleanup_count":     res.CleanupCount,
		})
	}
}
