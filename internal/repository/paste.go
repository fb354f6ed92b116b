package repository

import (
	"context"
	"errors"
	"time"

	"pastebox/internal/model"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

// PasteRepository defines data access for paste records using SQL queries only.
// No business logic here, strictly persistence operations. Every method runs in
// its own short-lived statement or transaction; none holds a lock across file I/O.
type PasteRepository interface {
	// Create inserts a record and returns it with the store-assigned ID.
	Create(ctx context.Context, p *model.Paste) (*model.Paste, error)

	// FindByID returns a record by ID or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*model.Paste, error)

	// FindFileByStoredName returns the file record whose stored name matches, or ErrNotFound.
	FindFileByStoredName(ctx context.Context, storedName string) (*model.Paste, error)

	// List returns one page of records matching the filter, newest first, and the total match count.
	List(ctx context.Context, q ListQuery) (*PageResult[model.Paste], error)

	// ListFiles returns every file-backed record.
	ListFiles(ctx context.Context) ([]model.Paste, error)

	// StoredNames returns the set of stored file names referenced by records.
	StoredNames(ctx context.Context) (map[string]struct{}, error)

	// Delete removes a record by ID. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id int64) error

	// DeleteMany removes all given IDs in a single transaction.
	DeleteMany(ctx context.Context, ids []int64) error

	// SetFileSize stores a recomputed size; used only by the startup backfill.
	SetFileSize(ctx context.Context, id int64, size int64) error
}

// SettingsRepository is the key/value settings table.
type SettingsRepository interface {
	// Get returns the value and whether the key is present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set upserts a value.
	Set(ctx context.Context, key, value string) error
}

// ListQuery filters and paginates List.
// Search is a substring matched against content or original filename.
// From and Until bound the created_at date inclusively; zero values disable them.
type ListQuery struct {
	Search string
	From   time.Time
	Until  time.Time
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
