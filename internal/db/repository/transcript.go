package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TranscriptRepository stores one transcript per video.
type TranscriptRepository interface {
	// Upsert stores the transcript, replacing any previous one for the video.
	Upsert(ctx context.Context, transcript *models.Transcript) error

	// GetByVideoID returns db.ErrNotFound when the video has no transcript.
	GetByVideoID(ctx context.Context, videoID string) (*models.Transcript, error)
}

type transcriptRepository struct {
	pool *pgxpool.Pool
}

// NewTranscriptRepository creates a new TranscriptRepository.
func NewTranscriptRepository(pool *pgxpool.Pool) TranscriptRepository {
	return &transcriptRepository{pool: pool}
}

func (r *transcriptRepository) Upsert(ctx context.Context, transcript *models.Transcript) error {
	entries := transcript.Entries
	if entries == nil {
		entries = []models.TranscriptEntry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal transcript entries: %w", err)
	}

	if transcript.ContentHash == "" {
		transcript.ContentHash = db.GenerateContentHash(transcript.FormattedText)
	}

	query := `
		INSERT INTO transcripts (video_id, entries, formatted_text, language, content_hash)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (video_id) DO UPDATE
		SET entries = EXCLUDED.entries,
		    formatted_text = EXCLUDED.formatted_text,
		    language = EXCLUDED.language,
		    content_hash = EXCLUDED.content_hash,
		    updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err = r.pool.QueryRow(ctx, query,
		transcript.VideoID,
		payload,
		transcript.FormattedText,
		transcript.Language,
		transcript.ContentHash,
	).Scan(&transcript.CreatedAt, &transcript.UpdatedAt)
	if err != nil {
		return db.WrapError(err, "upsert transcript")
	}

	return nil
}

func (r *transcriptRepository) GetByVideoID(ctx context.Context, videoID string) (*models.Transcript, error) {
	query := `
		SELECT video_id, entries, formatted_text, language, content_hash, created_at, updated_at
		FROM transcripts
		WHERE video_id = $1
	`

	t := &models.Transcript{}
	var entries []byte
	err := r.pool.QueryRow(ctx, query, videoID).Scan(
		&t.VideoID,
		&entries,
		&t.FormattedText,
		&t.Language,
		&t.ContentHash,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get transcript by video id")
	}

	if err := json.Unmarshal(entries, &t.Entries); err != nil {
		return nil, fmt.Errorf("decode transcript entries: %w", err)
	}

	return t, nil
}
