package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pastebox/internal/database"
	"pastebox/internal/model"
	"pastebox/internal/repository"
)

// ErrInvalidRecord is returned by Create when a record violates the paste invariants.
var ErrInvalidRecord = errors.New("invalid paste record")

const pasteColumns = `id, content, stored_filename, original_filename, is_file, COALESCE(file_size, 0), submission_id, created_at`

// PasteSQL is a database/sql implementation of repository.PasteRepository.
// It speaks SQLite or PostgreSQL depending on the dialect it was built with.
type PasteSQL struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewPasteSQL creates a new PasteSQL repository.
func NewPasteSQL(db *sql.DB, d database.Dialect) *PasteSQL {
	return &PasteSQL{db: db, dialect: d}
}

var _ repository.PasteRepository = (*PasteSQL)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaste(s rowScanner) (*model.Paste, error) {
	var p model.Paste
	var content, stored, original, submission sql.NullString
	if err := s.Scan(
		&p.ID,
		&content,
		&stored,
		&original,
		&p.IsFile,
		&p.FileSize,
		&submission,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.Content = content.String
	p.StoredFilename = stored.String
	p.OriginalFilename = original.String
	p.SubmissionID = submission.String
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func validate(p *model.Paste) error {
	if p.IsFile {
		if p.StoredFilename == "" || p.OriginalFilename == "" {
			return fmt.Errorf("%w: file record needs stored and original filename", ErrInvalidRecord)
		}
		return nil
	}
	if p.StoredFilename != "" {
		return fmt.Errorf("%w: text record cannot reference a stored file", ErrInvalidRecord)
	}
	if p.Content == "" {
		return fmt.Errorf("%w: text record needs content", ErrInvalidRecord)
	}
	return nil
}

// Create inserts a new paste row and returns it with the assigned ID.
func (r *PasteSQL) Create(ctx context.Context, p *model.Paste) (*model.Paste, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	out := *p
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}

	const q = `
		INSERT INTO pastes (content, stored_filename, original_filename, is_file, file_size, submission_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(q),
		nullString(out.Content),
		nullString(out.StoredFilename),
		nullString(out.OriginalFilename),
		out.IsFile,
		out.FileSize,
		nullString(out.SubmissionID),
		out.CreatedAt,
	).Scan(&out.ID)
	if err != nil {
		return nil, fmt.Errorf("insert paste: %w", err)
	}
	return &out, nil
}

// FindByID fetches a single paste by its ID.
func (r *PasteSQL) FindByID(ctx context.Context, id int64) (*model.Paste, error) {
	q := `SELECT ` + pasteColumns + ` FROM pastes WHERE id = ?`
	p, err := scanPaste(r.db.QueryRowContext(ctx, r.dialect.Rebind(q), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// FindFileByStoredName fetches the file record stored under name.
func (r *PasteSQL) FindFileByStoredName(ctx context.Context, name string) (*model.Paste, error) {
	q := `SELECT ` + pasteColumns + ` FROM pastes WHERE stored_filename = ? AND is_file = TRUE`
	p, err := scanPaste(r.db.QueryRowContext(ctx, r.dialect.Rebind(q), name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// where builds the filter clause shared by the count and page queries.
func (r *PasteSQL) where(q repository.ListQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if q.Search != "" {
		like := r.dialect.Like()
		conds = append(conds, fmt.Sprintf(`(content %[1]s ? ESCAPE '\' OR original_filename %[1]s ? ESCAPE '\')`, like))
		pattern := "%" + escapeLike(q.Search) + "%"
		args = append(args, pattern, pattern)
	}
	if !q.From.IsZero() {
		conds = append(conds, `created_at >= ?`)
		args = append(args, startOfDay(q.From))
	}
	if !q.Until.IsZero() {
		conds = append(conds, `created_at < ?`)
		args = append(args, startOfDay(q.Until).AddDate(0, 0, 1))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// List returns pastes newest first using LIMIT/OFFSET pagination and a total count.
func (r *PasteSQL) List(ctx context.Context, lq repository.ListQuery) (*repository.PageResult[model.Paste], error) {
	where, args := r.where(lq)

	var total int
	qCount := `SELECT COUNT(*) FROM pastes` + where
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(qCount), args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count pastes: %w", err)
	}

	qList := `SELECT ` + pasteColumns + ` FROM pastes` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), lq.Limit, lq.Offset)

	items, err := r.query(ctx, qList, pageArgs...)
	if err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Paste]{
		Items: items,
		Total: total,
	}, nil
}

// ListFiles returns every file-backed record ordered by ID.
func (r *PasteSQL) ListFiles(ctx context.Context) ([]model.Paste, error) {
	q := `SELECT ` + pasteColumns + ` FROM pastes WHERE is_file = TRUE AND stored_filename IS NOT NULL ORDER BY id`
	return r.query(ctx, q)
}

func (r *PasteSQL) query(ctx context.Context, q string, args ...any) ([]model.Paste, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("query pastes: %w", err)
	}
	defer rows.Close()

	items := make([]model.Paste, 0)
	for rows.Next() {
		p, err := scanPaste(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paste: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// StoredNames returns every stored filename referenced by a record.
func (r *PasteSQL) StoredNames(ctx context.Context) (map[string]struct{}, error) {
	const q = `SELECT stored_filename FROM pastes WHERE stored_filename IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query stored names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// Delete removes a paste by ID. It does not return an error if the row does not exist.
func (r *PasteSQL) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM pastes WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(q), id); err != nil {
		return fmt.Errorf("delete paste %d: %w", id, err)
	}
	return nil
}

// DeleteMany removes all ids inside one transaction; either every row goes or none.
func (r *PasteSQL) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	q := r.dialect.Rebind(`DELETE FROM pastes WHERE id = ?`)
	return database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DBTX) error {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("delete paste %d: %w", id, err)
			}
		}
		return nil
	})
}

// SetFileSize overwrites the stored size of one record.
func (r *PasteSQL) SetFileSize(ctx context.Context, id int64, size int64) error {
	const q = `UPDATE pastes SET file_size = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(q), size, id); err != nil {
		return fmt.Errorf("update file size of %d: %w", id, err)
	}
	return nil
}
