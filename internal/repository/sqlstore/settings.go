package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository keeps the settings as one JSON value in the
// key-value settings table.
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Load(ctx context.Context) (*domain.Settings, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, domain.SettingsKey).Scan(&raw)
	if err != nil {
		return nil, notFoundIfNoRows("settings", domain.SettingsKey, err)
	}
	var s domain.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &s, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	stmt := `INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	logger.DatabaseCall("UPSERT", "settings", "key", domain.SettingsKey)
	_, err = r.db.ExecContext(ctx, stmt, domain.SettingsKey, string(raw))
	logger.DatabaseResult("UPSERT", 1, err)
	return err
}
