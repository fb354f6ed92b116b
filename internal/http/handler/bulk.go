package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"pastebox/internal/service"
)

type idsRequest struct {
	IDs []any `json:"ids"`
}

// rawIDs keeps every ID as a string so that malformed ones become per-item errors.
func rawIDs(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}

// BulkDownload godoc
// @Summary      Export pastes as a zip archive
// @Description  With link=1 the archive goes to the archive bucket and a presigned URL is returned.
// @Tags         bulk
// @Accept       json
// @Produce      application/zip
// @Param        link  query  string      false  "1 to get a download link instead of the archive"
// @Param        body  body   idsRequest  true   "IDs to export"
// @Success      200  {file}  binary
// @Failure      400  {object}  errorPayload
// @Router       /bulk-download [post]
func BulkDownload(bulk service.BulkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req idsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		ids := rawIDs(req.IDs)

		if c.Query("link") == "1" {
			link, err := bulk.ExportLink(c.UserContext(), ids)
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.JSON(link)
		}

		a, err := bulk.Export(c.UserContext(), ids)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Attachment(a.Name)
		c.Set("X-Skipped-Count", strconv.Itoa(len(a.Skipped)))
		return c.Send(a.Data)
	}
}

// BulkDelete godoc
// @Summary      Delete several pastes
// @Description  Records whose file cannot be removed from disk are kept and reported in errors; the rest are deleted together.
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        body  body  idsRequest  true  "IDs to delete"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /bulk-delete [post]
func BulkDelete(bulk service.BulkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req idsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := bulk.BulkDelete(c.UserContext(), rawIDs(req.IDs))
		if err != nil {
			return writeServiceError(c, err)
		}

		if res.DeletedCount == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":       false,
				"message":       "No items were deleted.",
				"deleted_count": 0,
				"errors":        res.Errors,
			})
		}

		msg := fmt.Sprintf("Successfully deleted %d items.", res.DeletedCount)
		if len(res.Errors) > 0 {
			msg += fmt.Sprintf(" %d items had errors.", len(res.Errors))
		}
		return c.JSON(fiber.Map{
			"success":       true,
			"message":       msg,
			"deleted_count": res.DeletedCount,
			"errors":        res.Errors,
		})
	}
}
