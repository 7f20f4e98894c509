package repository

import (
	"context"
	"fmt"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChapterSummaryRepository is the versioned store of chapter summaries, keyed
// by (video_id, chapter_time). It follows the same locking discipline as
// SummaryRepository using chapter_summary_counters.
type ChapterSummaryRepository interface {
	Create(ctx context.Context, summary *models.ChapterSummary) error
	SetCurrent(ctx context.Context, videoID string, chapterTime int, summaryID int64) error
	GetCurrent(ctx context.Context, videoID string, chapterTime int) (*models.ChapterSummary, error)
	ListHistory(ctx context.Context, videoID string, chapterTime int) ([]*models.ChapterSummary, error)
	GetByID(ctx context.Context, summaryID int64) (*models.ChapterSummary, error)
	Delete(ctx context.Context, summaryID int64) error
}

type chapterSummaryRepository struct {
	pool *pgxpool.Pool
}

// NewChapterSummaryRepository creates a new ChapterSummaryRepository.
func NewChapterSummaryRepository(pool *pgxpool.Pool) ChapterSummaryRepository {
	return &chapterSummaryRepository{pool: pool}
}

const chapterSummaryColumns = `id, video_id, chapter_time, chapter_title, summary_text, model_used,
	prompt_id, prompt_name, is_current, version_number, created_at, updated_at`

func (r *chapterSummaryRepository) Create(ctx context.Context, summary *models.ChapterSummary) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chapter_summary_counters (video_id, chapter_time, last_version)
			VALUES ($1, $2, 0)
			ON CONFLICT (video_id, chapter_time) DO NOTHING`,
			summary.VideoID, summary.ChapterTime,
		); err != nil {
			return db.WrapError(err, "init chapter summary counter")
		}

		last, err := lockChapterCounter(ctx, tx, summary.VideoID, summary.ChapterTime)
		if err != nil {
			return err
		}
		version := last + 1

		if _, err := tx.Exec(ctx, `
			UPDATE chapter_summaries SET is_current = FALSE, updated_at = NOW()
			WHERE video_id = $1 AND chapter_time = $2 AND is_current`,
			summary.VideoID, summary.ChapterTime,
		); err != nil {
			return db.WrapError(err, "clear current chapter summary")
		}

		query := `
			INSERT INTO chapter_summaries (video_id, chapter_time, chapter_title, summary_text, model_used,
			                               prompt_id, prompt_name, is_current, version_number)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)
			RETURNING id, is_current, version_number, created_at, updated_at
		`
		err = tx.QueryRow(ctx, query,
			summary.VideoID,
			summary.ChapterTime,
			summary.ChapterTitle,
			summary.Text,
			summary.ModelUsed,
			summary.PromptID,
			summary.PromptName,
			version,
		).Scan(&summary.ID, &summary.IsCurrent, &summary.VersionNumber, &summary.CreatedAt, &summary.UpdatedAt)
		if err != nil {
			return db.WrapError(err, "insert chapter summary")
		}

		if _, err := tx.Exec(ctx, `
			UPDATE chapter_summary_counters SET last_version = $3
			WHERE video_id = $1 AND chapter_time = $2`,
			summary.VideoID, summary.ChapterTime, version,
		); err != nil {
			return db.WrapError(err, "bump chapter summary counter")
		}

		return nil
	})
}

func lockChapterCounter(ctx context.Context, tx pgx.Tx, videoID string, chapterTime int) (int, error) {
	var last int
	err := tx.QueryRow(ctx, `
		SELECT last_version FROM chapter_summary_counters
		WHERE video_id = $1 AND chapter_time = $2
		FOR UPDATE`,
		videoID, chapterTime,
	).Scan(&last)
	if err != nil {
		return 0, db.WrapError(err, "lock chapter summary counter")
	}
	return last, nil
}

func (r *chapterSummaryRepository) SetCurrent(ctx context.Context, videoID string, chapterTime int, summaryID int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := lockChapterCounter(ctx, tx, videoID, chapterTime); err != nil {
			return err
		}

		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM chapter_summaries WHERE id = $1 AND video_id = $2 AND chapter_time = $3
			)`,
			summaryID, videoID, chapterTime,
		).Scan(&exists)
		if err != nil {
			return db.WrapError(err, "check chapter summary ownership")
		}
		if !exists {
			return fmt.Errorf("set current chapter summary %d: %w", summaryID, db.ErrNotFound)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE chapter_summaries SET is_current = FALSE, updated_at = NOW()
			WHERE video_id = $1 AND chapter_time = $2 AND is_current AND id <> $3`,
			videoID, chapterTime, summaryID,
		); err != nil {
			return db.WrapError(err, "clear current chapter summary")
		}

		if _, err := tx.Exec(ctx,
			`UPDATE chapter_summaries SET is_current = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_current`,
			summaryID,
		); err != nil {
			return db.WrapError(err, "set current chapter summary")
		}

		return nil
	})
}

func (r *chapterSummaryRepository) GetCurrent(ctx context.Context, videoID string, chapterTime int) (*models.ChapterSummary, error) {
	query := `SELECT ` + chapterSummaryColumns + `
		FROM chapter_summaries
		WHERE video_id = $1 AND chapter_time = $2 AND is_current`

	summary, err := scanChapterSummary(r.pool.QueryRow(ctx, query, videoID, chapterTime))
	if err != nil {
		return nil, db.WrapError(err, "get current chapter summary")
	}

	return summary, nil
}

func (r *chapterSummaryRepository) ListHistory(ctx context.Context, videoID string, chapterTime int) ([]*models.ChapterSummary, error) {
	query := `SELECT ` + chapterSummaryColumns + `
		FROM chapter_summaries
		WHERE video_id = $1 AND chapter_time = $2
		ORDER BY version_number DESC`

	rows, err := r.pool.Query(ctx, query, videoID, chapterTime)
	if err != nil {
		return nil, db.WrapError(err, "list chapter summary history")
	}
	defer rows.Close()

	var summaries []*models.ChapterSummary
	for rows.Next() {
		summary, err := scanChapterSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chapter summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chapter summaries: %w", err)
	}

	return summaries, nil
}

func (r *chapterSummaryRepository) GetByID(ctx context.Context, summaryID int64) (*models.ChapterSummary, error) {
	query := `SELECT ` + chapterSummaryColumns + ` FROM chapter_summaries WHERE id = $1`

	summary, err := scanChapterSummary(r.pool.QueryRow(ctx, query, summaryID))
	if err != nil {
		return nil, db.WrapError(err, "get chapter summary by id")
	}

	return summary, nil
}

func (r *chapterSummaryRepository) Delete(ctx context.Context, summaryID int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var videoID string
		var chapterTime int
		err := tx.QueryRow(ctx,
			`SELECT video_id, chapter_time FROM chapter_summaries WHERE id = $1`,
			summaryID,
		).Scan(&videoID, &chapterTime)
		if err != nil {
			return db.WrapError(err, "find chapter summary")
		}

		if _, err := lockChapterCounter(ctx, tx, videoID, chapterTime); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM chapter_summaries WHERE id = $1`, summaryID); err != nil {
			return db.WrapError(err, "delete chapter summary")
		}

		return nil
	})
}

func scanChapterSummary(row pgx.Row) (*models.ChapterSummary, error) {
	s := &models.ChapterSummary{}
	err := row.Scan(
		&s.ID,
		&s.VideoID,
		&s.ChapterTime,
		&s.ChapterTitle,
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
