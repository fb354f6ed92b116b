package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"pastebox/internal/service"
)

func wantsJSON(c *fiber.Ctx) bool {
	return c.Get(fiber.HeaderXRequestedWith) == "XMLHttpRequest" ||
		strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

func pasteID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

// ListPastes godoc
// @Summary      List pastes
// @Description  Paginated, filterable listing, newest first
// @Tags         pastes
// @Produce      json
// @Param        page        query  int     false  "Page number (1-based)"
// @Param        q           query  string  false  "Substring of content or filename"
// @Param        start_date  query  string  false  "YYYY-MM-DD, inclusive"
// @Param        end_date    query  string  false  "YYYY-MM-DD, inclusive"
// @Param        partial     query  string  false  "1 for the incremental-update shape"
// @Success      200  {object}  service.ListResult
// @Failure      400  {object}  errorPayload
// @Router       / [get]
func ListPastes(pastes service.PasteService, roots service.RootService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		first, err := roots.SetupRequired(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		if first {
			return c.JSON(fiber.Map{"setup_required": true})
		}

		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}

		res, err := pastes.List(c.UserContext(), service.ListFilter{
			Query:     c.Query("q"),
			StartDate: c.Query("start_date"),
			EndDate:   c.Query("end_date"),
			Page:      page,
		})
		if err != nil {
			return writeServiceError(c, err)
		}

		if c.Query("partial") == "1" {
			return c.JSON(fiber.Map{
				"list": res.Items,
				"pagination": fiber.Map{
					"page":      res.Page,
					"last_page": res.LastPage,
					"total":     res.Total,
					"q":         res.Query,
				},
			})
		}
		return c.JSON(res)
	}
}

// CreatePaste godoc
// @Summary      Submit a paste
// @Description  Text and/or files. Redirects to / unless the caller asks for JSON.
// @Tags         pastes
// @Accept       multipart/form-data
// @Produce      json
// @Param        content  formData  string  false  "Text content"
// @Param        files    formData  file    false  "Files to upload"
// @Success      201  {object}  map[string][]int64
// @Success      303
// @Failure      500  {object}  errorPayload
// @Router       /paste [post]
func CreatePaste(pastes service.PasteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		text := c.FormValue("content")

		var headers []*multipart.FileHeader
		if form, err := c.MultipartForm(); err == nil {
			headers = form.File["files"]
		}

		uploads := make([]service.Upload, 0, len(headers))
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()
			uploads = append(uploads, service.Upload{Filename: fh.Filename, Content: f})
		}

		ids, err := pastes.Ingest(c.UserContext(), text, uploads)
		if err != nil {
			return writeServiceError(c, err)
		}
		if ids == nil {
			ids = []int64{}
		}

		if wantsJSON(c) {
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ids": ids})
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// ServeFile godoc
// @Summary      Fetch the bytes of a file paste
// @Description  /file/{id} serves inline, /download/{id} as an attachment
// @Tags         pastes
// @Produce      octet-stream
// @Param        id  path  int  true  "Paste ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  errorPayload
// @Router       /file/{id} [get]
// @Router       /download/{id} [get]
func ServeFile(pastes service.PasteService, attachment bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pasteID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		fc, err := pastes.OpenFile(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		if attachment {
			c.Attachment(fc.Name)
		} else {
			c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename=%q`, fc.Name))
		}
		if ext := filepath.Ext(fc.Name); ext != "" {
			c.Type(ext)
		} else {
			c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
		}
		c.Set(fiber.HeaderLastModified, fc.Modified.UTC().Format(http.TimeFormat))
		return c.SendStream(fc.Reader, int(fc.Size))
	}
}

// DeletePaste godoc
// @Summary      Delete a paste and its file
// @Tags         pastes
// @Param        id  path  int  true  "Paste ID"
// @Success      204
// @Success      303
// @Failure      404  {object}  errorPayload
// @Router       /delete/{id} [post]
func DeletePaste(pastes service.PasteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pasteID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := pastes.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		if wantsJSON(c) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}
