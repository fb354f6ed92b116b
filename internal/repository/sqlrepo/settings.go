package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pastebox/internal/database"
	"pastebox/internal/repository"
)

// SettingsSQL stores settings in the key/value settings table.
type SettingsSQL struct {
	db      database.DBTX
	dialect database.Dialect
}

// NewSettingsSQL creates a new SettingsSQL repository.
func NewSettingsSQL(db database.DBTX, d database.Dialect) *SettingsSQL {
	return &SettingsSQL{db: db, dialect: d}
}

var _ repository.SettingsRepository = (*SettingsSQL)(nil)

func (r *SettingsSQL) Get(ctx context.Context, key string) (string, bool, error) {
	var value sql.NullString
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT value FROM settings WHERE key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting[%s]: %w", key, err)
	}
	return value.String, true, nil
}

func (r *SettingsSQL) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`), key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting[%s]: %w", key, err)
	}
	return nil
}
