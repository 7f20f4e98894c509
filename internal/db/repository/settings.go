package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository persists the singleton settings documents.
type SettingsRepository interface {
	// GetSummarizerSettings overlays the stored document onto defaults.
	// Missing rows yield defaults unchanged.
	GetSummarizerSettings(ctx context.Context, defaults models.SummarizerSettings) (models.SummarizerSettings, error)
	SaveSummarizerSettings(ctx context.Context, settings models.SummarizerSettings) error

	GetImportSettings(ctx context.Context, defaults models.ImportSettings) (models.ImportSettings, error)
	SaveImportSettings(ctx context.Context, settings models.ImportSettings) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) GetSummarizerSettings(ctx context.Context, defaults models.SummarizerSettings) (models.SummarizerSettings, error) {
	settings := defaults
	if err := r.load(ctx, "summarizer_settings", &settings); err != nil {
		return defaults, err
	}
	return settings, nil
}

func (r *settingsRepository) SaveSummarizerSettings(ctx context.Context, settings models.SummarizerSettings) error {
	return r.save(ctx, "summarizer_settings", settings)
}

func (r *settingsRepository) GetImportSettings(ctx context.Context, defaults models.ImportSettings) (models.ImportSettings, error) {
	settings := defaults
	if err := r.load(ctx, "import_settings", &settings); err != nil {
		return defaults, err
	}
	return settings, nil
}

func (r *settingsRepository) SaveImportSettings(ctx context.Context, settings models.ImportSettings) error {
	return r.save(ctx, "import_settings", settings)
}

// load decodes the stored document over dst, so keys absent from the
// document keep the values already in dst.
func (r *settingsRepository) load(ctx context.Context, table string, dst any) error {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT settings FROM `+table+` WHERE id = 1`).Scan(&doc)
	if err != nil {
		wrapped := db.WrapError(err, "load "+table)
		if errors.Is(wrapped, db.ErrNotFound) {
			return nil
		}
		return wrapped
	}

	if err := json.Unmarshal(doc, dst); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (r *settingsRepository) save(ctx context.Context, table string, settings any) error {
	doc, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO `+table+` (id, settings, updated_at) VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = NOW()`,
		doc,
	)
	if err != nil {
		return db.WrapError(err, "save "+table)
	}
	return nil
}
