package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/presenzo/presence-backend-go/internal/domain/settings"
	"github.com/presenzo/presence-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

// The settings table holds a single row; config shape evolves too often to
// model column-per-field, so the payload is stored as jsonb.
const settingsRowID = 1

// Get implements settings.SettingsRepository.
func (r *settingsRepository) Get(ctx context.Context) (settings.TimingConfig, error) {
	var cfg settings.TimingConfig
	err := r.db.QueryRow(ctx,
		`SELECT config FROM attendance_settings WHERE id = $1`, settingsRowID,
	).Scan(&cfg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.TimingConfig{}, settings.ErrSettingsNotFound
		}
		return settings.TimingConfig{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return cfg, nil
}

// Upsert implements settings.SettingsRepository.
func (r *settingsRepository) Upsert(ctx context.Context, cfg settings.TimingConfig) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO attendance_settings (id, config, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET config = EXCLUDED.config, updated_at = NOW()
	`, settingsRowID, cfg)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}
