package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"

	"pastebox/internal/model"
	"pastebox/internal/repository"
	"pastebox/internal/storage"
)

// Archive is an exported zip held in memory.
type Archive struct {
	Name    string
	Data    []byte
	Skipped []ItemError
}

// ExportLink points at an archive offloaded to the archive store.
type ExportLink struct {
	URL       string      `json:"url"`
	Name      string      `json:"name"`
	ExpiresAt time.Time   `json:"expires_at"`
	Skipped   []ItemError `json:"skipped"`
}

// BulkDeleteResult reports a bulk delete.
type BulkDeleteResult struct {
	DeletedCount int         `json:"deleted_count"`
	Errors       []ItemError `json:"errors"`
}

// BulkService defines the batch use cases. IDs are untrusted strings; a bad
// ID becomes a per-item error, never a failure of the whole batch.
type BulkService interface {
	Export(ctx context.Context, ids []string) (*Archive, error)
	ExportLink(ctx context.Context, ids []string) (*ExportLink, error)
	BulkDelete(ctx context.Context, ids []string) (*BulkDeleteResult, error)
}

type bulkService struct {
	pastes  repository.PasteRepository
	loc     *storage.Locator
	archive storage.ArchiveStore
	linkTTL time.Duration
	now     func() time.Time
}

// NewBulkService constructs a BulkService. archive may be nil, which
// disables ExportLink.
func NewBulkService(pastes repository.PasteRepository, loc *storage.Locator, archive storage.ArchiveStore, linkTTL time.Duration) BulkService {
	return &bulkService{pastes: pastes, loc: loc, archive: archive, linkTTL: linkTTL, now: time.Now}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid paste id format: %s", raw)
	}
	return id, nil
}

// lookup resolves one raw ID to its record or a per-item error.
func (s *bulkService) lookup(ctx context.Context, raw string) (*model.Paste, *ItemError) {
	id, err := parseID(raw)
	if err != nil {
		return nil, &ItemError{Item: raw, Message: err.Error()}
	}
	p, err := s.pastes.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ItemError{Item: raw, Message: fmt.Sprintf("paste id %d not found", id)}
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("paste_id", id).Msg("bulk lookup failed")
		return nil, &ItemError{Item: raw, Message: fmt.Sprintf("error processing paste id %d", id)}
	}
	return p, nil
}

func (s *bulkService) Export(ctx context.Context, ids []string) (*Archive, error) {
	if len(ids) == 0 {
		return nil, validationError("no ids provided")
	}
	root, err := s.loc.Root(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	used := make(map[string]struct{})
	skipped := []ItemError{}

	for _, raw := range ids {
		p, ierr := s.lookup(ctx, raw)
		if ierr != nil {
			skipped = append(skipped, *ierr)
			continue
		}

		if !p.IsFile {
			name := entryName(used, p.ID, fmt.Sprintf("paste_%d.txt", p.ID))
			if err := writeEntry(zw, name, p.CreatedAt, strings.NewReader(p.Content)); err != nil {
				return nil, ioError("write archive", err)
			}
			continue
		}

		path, err := storage.Join(root, p.StoredFilename)
		if err != nil {
			skipped = append(skipped, ItemError{Item: raw, Message: err.Error()})
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			msg := "file missing"
			if !errors.Is(err, fs.ErrNotExist) {
				msg = err.Error()
			}
			skipped = append(skipped, ItemError{Item: raw, Message: msg})
			continue
		}

		err = writeEntry(zw, entryName(used, p.ID, p.OriginalFilename), p.CreatedAt, f)
		_ = f.Close()
		if err != nil {
			return nil, ioError("write archive", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, ioError("finish archive", err)
	}
	return &Archive{
		Name:    fmt.Sprintf("pastebin_bulk_%s.zip", s.now().Format("20060102_150405")),
		Data:    buf.Bytes(),
		Skipped: skipped,
	}, nil
}

// entryName prefixes name with the paste ID until it no longer collides with
// an entry already in the archive, then records it as used.
func entryName(used map[string]struct{}, id int64, name string) string {
	for {
		if _, dup := used[name]; !dup {
			used[name] = struct{}{}
			return name
		}
		name = fmt.Sprintf("%d_%s", id, name)
	}
}

func writeEntry(zw *zip.Writer, name string, modified time.Time, r io.Reader) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	return err
}

func (s *bulkService) ExportLink(ctx context.Context, ids []string) (*ExportLink, error) {
	if s.archive == nil {
		return nil, validationError("archive store is not configured")
	}
	a, err := s.Export(ctx, ids)
	if err != nil {
		return nil, err
	}

	key := "exports/" + uuid.NewString() + ".zip"
	if _, err := s.archive.Put(ctx, key, bytes.NewReader(a.Data), storage.PutObjectOptions{
		Size:               int64(len(a.Data)),
		ContentType:        "application/zip",
		ContentDisposition: fmt.Sprintf(`attachment; filename="%s"`, a.Name),
	}); err != nil {
		return nil, ioError("upload archive", err)
	}

	url, err := s.archive.PresignGet(ctx, key, s.linkTTL)
	if err != nil {
		if derr := s.archive.Delete(ctx, key); derr != nil {
			log.Ctx(ctx).Warn().Err(derr).Str("key", key).Msg("failed to remove unreachable archive")
		}
		return nil, ioError("presign archive", err)
	}
	return &ExportLink{URL: url, Name: a.Name, ExpiresAt: s.now().Add(s.linkTTL), Skipped: a.Skipped}, nil
}

// BulkDelete removes backing files first and then all affected records in
// one transaction. A record whose file could not be removed is kept and
// reported, so no record outlives its file by this path.
func (s *bulkService) BulkDelete(ctx context.Context, ids []string) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, validationError("no ids provided")
	}
	root, err := s.loc.Root(ctx)
	if err != nil {
		return nil, err
	}

	res := &BulkDeleteResult{Errors: []ItemError{}}
	toDelete := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{})

	for _, raw := range ids {
		p, ierr := s.lookup(ctx, raw)
		if ierr != nil {
			res.Errors = append(res.Errors, *ierr)
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		if p.IsFile {
			path, err := storage.Join(root, p.StoredFilename)
			if err == nil {
				err = removeIfExists(path)
			}
			if err != nil {
				log.Ctx(ctx).Error().Err(err).Int64("paste_id", p.ID).Msg("bulk delete: file not removed")
				res.Errors = append(res.Errors, ItemError{Item: raw, Message: fmt.Sprintf("error deleting file for paste id %d", p.ID)})
				continue
			}
		}
		seen[p.ID] = struct{}{}
		toDelete = append(toDelete, p.ID)
	}

	if err := s.pastes.DeleteMany(ctx, toDelete); err != nil {
		return nil, ioError("delete records", err)
	}
	res.DeletedCount = len(toDelete)
	log.Ctx(ctx).Info().Int("deleted", res.DeletedCount).Int("errors", len(res.Errors)).Msg("bulk delete finished")
	return res, nil
}
