package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pastebox/internal/metrics"
	"pastebox/internal/model"
	"pastebox/internal/repository"
	"pastebox/internal/storage"
)

const (
	maxNameAttempts = 100
	dateLayout      = "2006-01-02"
)

// Upload is one file of a submission.
type Upload struct {
	Filename string
	Content  io.Reader
}

// ListFilter holds the listing query parameters as received.
type ListFilter struct {
	Query     string
	StartDate string
	EndDate   string
	Page      int
}

// ListItem is a record as shown in the listing.
type ListItem struct {
	model.Paste
	SizeHuman string `json:"size_human"`
}

// ListResult is one page of the listing.
type ListResult struct {
	Items    []ListItem `json:"items"`
	Page     int        `json:"page"`
	LastPage int        `json:"last_page"`
	Total    int        `json:"total"`
	Query    string     `json:"q"`
}

// FileContent is an opened backing file ready to be served.
// The caller must close Reader.
type FileContent struct {
	Reader   *os.File
	Name     string
	Size     int64
	Modified time.Time
}

// PasteService defines the single-record use cases.
type PasteService interface {
	// Ingest persists one submission and returns the created record IDs.
	// An empty submission inserts nothing.
	Ingest(ctx context.Context, text string, files []Upload) ([]int64, error)

	// Get returns a record by ID.
	Get(ctx context.Context, id int64) (*model.Paste, error)

	// OpenFile opens the backing file of a file record.
	OpenFile(ctx context.Context, id int64) (*FileContent, error)

	// Delete removes a record and its backing file.
	Delete(ctx context.Context, id int64) error

	// List returns one page of records, newest first.
	List(ctx context.Context, f ListFilter) (*ListResult, error)
}

type pasteService struct {
	pastes   repository.PasteRepository
	loc      *storage.Locator
	metrics  *metrics.Metrics
	pageSize int
	now      func() time.Time
}

// NewPasteService constructs a new PasteService.
func NewPasteService(pastes repository.PasteRepository, loc *storage.Locator, m *metrics.Metrics, pageSize int) PasteService {
	if pageSize <= 0 {
		pageSize = 15
	}
	return &pasteService{pastes: pastes, loc: loc, metrics: m, pageSize: pageSize, now: time.Now}
}

func (s *pasteService) Ingest(ctx context.Context, text string, files []Upload) ([]int64, error) {
	text = strings.TrimSpace(text)

	uploads := make([]Upload, 0, len(files))
	for _, f := range files {
		if f.Filename != "" && f.Content != nil {
			uploads = append(uploads, f)
		}
	}
	if text == "" && len(uploads) == 0 {
		return nil, nil
	}

	submission := uuid.NewString()

	if len(uploads) == 0 {
		p, err := s.pastes.Create(ctx, &model.Paste{
			Content:      text,
			FileSize:     int64(len(text)),
			SubmissionID: submission,
		})
		if err != nil {
			return nil, fmt.Errorf("save text paste: %w", err)
		}
		s.metrics.Ingested("text")
		return []int64{p.ID}, nil
	}

	root, err := s.loc.Root(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, ioError("create storage root", err)
	}

	ids := make([]int64, 0, len(uploads))
	for _, u := range uploads {
		p, err := s.storeFile(ctx, root, text, submission, u)
		if err != nil {
			return ids, err
		}
		ids = append(ids, p.ID)
		s.metrics.Ingested("file")
	}
	return ids, nil
}

func (s *pasteService) storeFile(ctx context.Context, root, text, submission string, u Upload) (*model.Paste, error) {
	name := SanitizeFilename(u.Filename)

	f, stored, err := createUnique(root, s.now(), name)
	if err != nil {
		return nil, err
	}
	path := f.Name()

	n, err := io.Copy(f, u.Content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, ioError("write "+stored, err)
	}

	p, err := s.pastes.Create(ctx, &model.Paste{
		Content:          text,
		StoredFilename:   stored,
		OriginalFilename: name,
		IsFile:           true,
		FileSize:         n,
		SubmissionID:     submission,
	})
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			return nil, fmt.Errorf("save file record failed: %v; remove %s failed: %v", err, stored, rmErr)
		}
		return nil, fmt.Errorf("save file record: %w", err)
	}
	return p, nil
}

func createUnique(root string, now time.Time, name string) (*os.File, string, error) {
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		stored := storedName(now, name, attempt)
		f, err := os.OpenFile(filepath.Join(root, stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, stored, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", ioError("create "+stored, err)
		}
	}
	return nil, "", ioError("create file", fmt.Errorf("no free name for %s", name))
}

func (s *pasteService) Get(ctx context.Context, id int64) (*model.Paste, error) {
	p, err := s.pastes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: paste %d", ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

func (s *pasteService) OpenFile(ctx context.Context, id int64) (*FileContent, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsFile {
		return nil, fmt.Errorf("%w: paste %d has no file", ErrNotFound, id)
	}
	path, err := s.loc.PathFor(ctx, p)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: file of paste %d", ErrNotFound, id)
		}
		return nil, ioError("open "+p.StoredFilename, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, ioError("stat "+p.StoredFilename, err)
	}
	return &FileContent{Reader: f, Name: p.OriginalFilename, Size: st.Size(), Modified: st.ModTime()}, nil
}

// Delete removes the backing file first. If that fails for any reason other
// than absence the record is kept, so record and file do not diverge.
func (s *pasteService) Delete(ctx context.Context, id int64) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.IsFile {
		path, err := s.loc.PathFor(ctx, p)
		if err != nil {
			return err
		}
		if err := removeIfExists(path); err != nil {
			return err
		}
	}
	if err := s.pastes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete paste %d: %w", id, err)
	}
	log.Ctx(ctx).Info().Int64("paste_id", id).Bool("is_file", p.IsFile).Msg("paste deleted")
	return nil
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: remove %s: %w", ErrPermission, filepath.Base(path), err)
	}
	return ioError("remove "+filepath.Base(path), err)
}

func (s *pasteService) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	q := repository.ListQuery{Search: strings.TrimSpace(f.Query), Limit: s.pageSize}

	var err error
	if q.From, err = parseDate(f.StartDate); err != nil {
		return nil, err
	}
	if q.Until, err = parseDate(f.EndDate); err != nil {
		return nil, err
	}

	page := max(f.Page, 1)
	q.Offset = (min(page, math.MaxInt/s.pageSize) - 1) * s.pageSize

	res, err := s.pastes.List(ctx, q)
	if err != nil {
		return nil, err
	}

	items := make([]ListItem, 0, len(res.Items))
	for _, p := range res.Items {
		items = append(items, ListItem{Paste: p, SizeHuman: humanize.Bytes(uint64(max(p.FileSize, 0)))})
	}
	return &ListResult{
		Items:    items,
		Page:     page,
		LastPage: max(int(math.Ceil(float64(res.Total)/float64(s.pageSize))), 1),
		Total:    res.Total,
		Query:    q.Search,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, validationError("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
