package repository

import (
	"context"
	"fmt"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SummaryRepository is the versioned store of video summaries.
//
// Every mutation for a video runs in one transaction holding the row lock on
// the video's summary_counters row, so concurrent writers for the same video
// are serialized and at most one version is current at any time.
type SummaryRepository interface {
	// Create stores summary as the newest version and makes it current.
	// ID, VersionNumber, IsCurrent and the timestamps are filled in.
	Create(ctx context.Context, summary *models.Summary) error

	// SetCurrent makes summaryID the current version of videoID.
	// Returns db.ErrNotFound when the summary does not belong to the video.
	SetCurrent(ctx context.Context, videoID string, summaryID int64) error

	// GetCurrent returns the current version, or db.ErrNotFound.
	GetCurrent(ctx context.Context, videoID string) (*models.Summary, error)

	// ListHistory returns all versions of a video, newest first.
	ListHistory(ctx context.Context, videoID string) ([]*models.Summary, error)

	// GetByID retrieves a single version.
	GetByID(ctx context.Context, summaryID int64) (*models.Summary, error)

	// Delete removes a version. Deleting the current version leaves the
	// video without a current summary.
	Delete(ctx context.Context, summaryID int64) error

	// ListCurrentForChat returns current summaries joined with their videos,
	// newest published first. A nil channelID spans all channels.
	ListCurrentForChat(ctx context.Context, channelID *string, limit int) ([]*models.ChatSummary, error)
}

type summaryRepository struct {
	pool *pgxpool.Pool
}

// NewSummaryRepository creates a new SummaryRepository.
func NewSummaryRepository(pool *pgxpool.Pool) SummaryRepository {
	return &summaryRepository{pool: pool}
}

const summaryColumns = `id, video_id, summary_text, model_used, prompt_id, prompt_name,
	is_current, version_number, created_at, updated_at`

func (r *summaryRepository) Create(ctx context.Context, summary *models.Summary) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		version, err := nextSummaryVersion(ctx, tx, summary.VideoID)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE summaries SET is_current = FALSE, updated_at = NOW() WHERE video_id = $1 AND is_current`,
			summary.VideoID,
		); err != nil {
			return db.WrapError(err, "clear current summary")
		}

		query := `
			INSERT INTO summaries (video_id, summary_text, model_used, prompt_id, prompt_name, is_current, version_number)
			VALUES ($1, $2, $3, $4, $5, TRUE, $6)
			RETURNING id, is_current, version_number, created_at, updated_at
		`
		err = tx.QueryRow(ctx, query,
			summary.VideoID,
			summary.Text,
			summary.ModelUsed,
			summary.PromptID,
			summary.PromptName,
			version,
		).Scan(&summary.ID, &summary.IsCurrent, &summary.VersionNumber, &summary.CreatedAt, &summary.UpdatedAt)
		if err != nil {
			return db.WrapError(err, "insert summary")
		}

		if _, err := tx.Exec(ctx,
			`UPDATE summary_counters SET last_version = $2 WHERE video_id = $1`,
			summary.VideoID, version,
		); err != nil {
			return db.WrapError(err, "bump summary counter")
		}

		return nil
	})
}

// nextSummaryVersion locks the video's counter row, creating it on first use,
// and returns the next version number.
func nextSummaryVersion(ctx context.Context, tx pgx.Tx, videoID string) (int, error) {
	if _, err := tx.Exec(ctx,
		`INSERT INTO summary_counters (video_id, last_version) VALUES ($1, 0) ON CONFLICT (video_id) DO NOTHING`,
		videoID,
	); err != nil {
		return 0, db.WrapError(err, "init summary counter")
	}

	var last int
	err := tx.QueryRow(ctx,
		`SELECT last_version FROM summary_counters WHERE video_id = $1 FOR UPDATE`,
		videoID,
	).Scan(&last)
	if err != nil {
		return 0, db.WrapError(err, "lock summary counter")
	}

	return last + 1, nil
}

func lockSummaryCounter(ctx context.Context, tx pgx.Tx, videoID string) error {
	var last int
	err := tx.QueryRow(ctx,
		`SELECT last_version FROM summary_counters WHERE video_id = $1 FOR UPDATE`,
		videoID,
	).Scan(&last)
	if err != nil {
		return db.WrapError(err, "lock summary counter")
	}
	return nil
}

func (r *summaryRepository) SetCurrent(ctx context.Context, videoID string, summaryID int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockSummaryCounter(ctx, tx, videoID); err != nil {
			return err
		}

		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM summaries WHERE id = $1 AND video_id = $2)`,
			summaryID, videoID,
		).Scan(&exists)
		if err != nil {
			return db.WrapError(err, "check summary ownership")
		}
		if !exists {
			return fmt.Errorf("set current summary %d for %s: %w", summaryID, videoID, db.ErrNotFound)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE summaries SET is_current = FALSE, updated_at = NOW() WHERE video_id = $1 AND is_current AND id <> $2`,
			videoID, summaryID,
		); err != nil {
			return db.WrapError(err, "clear current summary")
		}

		if _, err := tx.Exec(ctx,
			`UPDATE summaries SET is_current = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_current`,
			summaryID,
		); err != nil {
			return db.WrapError(err, "set current summary")
		}

		return nil
	})
}

func (r *summaryRepository) GetCurrent(ctx context.Context, videoID string) (*models.Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM summaries WHERE video_id = $1 AND is_current`

	summary, err := scanSummary(r.pool.QueryRow(ctx, query, videoID))
	if err != nil {
		return nil, db.WrapError(err, "get current summary")
	}

	return summary, nil
}

func (r *summaryRepository) ListHistory(ctx context.Context, videoID string) ([]*models.Summary, error) {
	query := `SELECT ` + summaryColumns + `
		FROM summaries
		WHERE video_id = $1
		ORDER BY version_number DESC
	`

	rows, err := r.pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, db.WrapError(err, "list summary history")
	}
	defer rows.Close()

	var summaries []*models.Summary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	return summaries, nil
}

func (r *summaryRepository) GetByID(ctx context.Context, summaryID int64) (*models.Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM summaries WHERE id = $1`

	summary, err := scanSummary(r.pool.QueryRow(ctx, query, summaryID))
	if err != nil {
		return nil, db.WrapError(err, "get summary by id")
	}

	return summary, nil
}

func (r *summaryRepository) Delete(ctx context.Context, summaryID int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var videoID string
		err := tx.QueryRow(ctx, `SELECT video_id FROM summaries WHERE id = $1`, summaryID).Scan(&videoID)
		if err != nil {
			return db.WrapError(err, "find summary")
		}

		if err := lockSummaryCounter(ctx, tx, videoID); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM summaries WHERE id = $1`, summaryID)
		if err != nil {
			return db.WrapError(err, "delete summary")
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("delete summary %d: %w", summaryID, db.ErrNotFound)
		}

		return nil
	})
}

func (r *summaryRepository) ListCurrentForChat(ctx context.Context, channelID *string, limit int) ([]*models.ChatSummary, error) {
	query := `
		SELECT v.video_id, v.title, v.channel_id, s.summary_text, s.model_used, v.published_at
		FROM summaries s
		JOIN videos v ON v.video_id = s.video_id
		WHERE s.is_current
		  AND ($1::text IS NULL OR v.channel_id = $1)
		ORDER BY v.published_at DESC NULLS LAST, s.created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, db.WrapError(err, "list current summaries for chat")
	}
	defer rows.Close()

	var items []*models.ChatSummary
	for rows.Next() {
		item := &models.ChatSummary{}
		if err := rows.Scan(
			&item.VideoID,
			&item.Title,
			&item.ChannelID,
			&item.Text,
			&item.ModelUsed,
			&item.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan chat summary: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat summaries: %w", err)
	}

	return items, nil
}

func scanSummary(row pgx.Row) (*models.Summary, error) {
	s := &models.Summary{}
	err := row.Scan(
		&s.ID,
		&s.VideoID,
		&s.Text,
		&s.ModelUsed,
		&s.PromptID,
		&s.PromptName,
		&s.IsCurrent,
		&s.VersionNumber,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
