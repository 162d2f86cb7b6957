package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hoursboard/timereport/pkg/database"
)

// settingsKey is the single row the widget settings blob lives under.
const settingsKey = "widget"

// SettingsRepository persists the raw settings blob.
type SettingsRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{db: db, logger: logger}
}

// Get returns the stored settings blob, or nil when none has been saved.
func (r *SettingsRepository) Get(ctx context.Context) ([]byte, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", settingsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return raw, nil
}

// Put stores the settings blob, replacing any previous value.
func (r *SettingsRepository) Put(ctx context.Context, raw []byte) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, settingsKey, raw); err != nil {
		r.logger.Error("Failed to persist settings", zap.Error(err))
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}
