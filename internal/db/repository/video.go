package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VideoRepository defines operations for managing videos.
type VideoRepository interface {
	// UpsertVideo creates a new video or updates an existing one.
	UpsertVideo(ctx context.Context, video *models.Video) error

	// GetVideoByID retrieves a single video by ID.
	GetVideoByID(ctx context.Context, videoID string) (*models.Video, error)

	// GetVideosByChannelID retrieves the most recently published videos of a channel.
	GetVideosByChannelID(ctx context.Context, channelID string, limit int) ([]*models.Video, error)

	// ListVideos retrieves all videos with pagination.
	ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error)
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

const videoColumns = `video_id, channel_id, channel_name, title, description, duration_seconds,
	view_count, published_at, chapters, created_at, updated_at`

func (r *videoRepository) UpsertVideo(ctx context.Context, video *models.Video) error {
	chapters, err := json.Marshal(nonNilChapters(video.Chapters))
	if err != nil {
		return fmt.Errorf("marshal chapters: %w", err)
	}

	query := `
		INSERT INTO videos (video_id, channel_id, channel_name, title, description, duration_seconds,
		                    view_count, published_at, chapters, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (video_id) DO UPDATE
		SET channel_id = EXCLUDED.channel_id,
		    channel_name = EXCLUDED.channel_name,
		    title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    duration_seconds = EXCLUDED.duration_seconds,
		    view_count = EXCLUDED.view_count,
		    published_at = EXCLUDED.published_at,
		    chapters = EXCLUDED.chapters,
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	err = r.pool.QueryRow(ctx, query,
		video.VideoID,
		video.ChannelID,
		video.ChannelName,
		video.Title,
		video.Description,
		video.DurationSeconds,
		video.ViewCount,
		video.PublishedAt,
		chapters,
		video.CreatedAt,
		video.UpdatedAt,
	).Scan(&video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return db.WrapError(err, "upsert video")
	}

	return nil
}

func (r *videoRepository) GetVideoByID(ctx context.Context, videoID string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE video_id = $1`

	video, err := scanVideo(r.pool.QueryRow(ctx, query, videoID))
	if err != nil {
		return nil, db.WrapError(err, "get video by id")
	}

	return video, nil
}

func (r *videoRepository) GetVideosByChannelID(ctx context.Context, channelID string, limit int) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + `
		FROM videos
		WHERE channel_id = $1
		ORDER BY published_at DESC NULLS LAST
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, db.WrapError(err, "get videos by channel id")
	}
	defer rows.Close()

	return scanVideos(rows)
}

func (r *videoRepository) ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + `
		FROM videos
		ORDER BY published_at DESC NULLS LAST
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list videos")
	}
	defer rows.Close()

	return scanVideos(rows)
}

func nonNilChapters(chapters []models.Chapter) []models.Chapter {
	if chapters == nil {
		return []models.Chapter{}
	}
	return chapters
}

func scanVideo(row pgx.Row) (*models.Video, error) {
	video := &models.Video{}
	var chapters []byte
	err := row.Scan(
		&video.VideoID,
		&video.ChannelID,
		&video.ChannelName,
		&video.Title,
		&video.Description,
		&video.DurationSeconds,
		&video.ViewCount,
		&video.PublishedAt,
		&chapters,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(chapters) > 0 {
		if err := json.Unmarshal(chapters, &video.Chapters); err != nil {
			return nil, fmt.Errorf("decode chapters of %s: %w", video.VideoID, err)
		}
	}
	return video, nil
}

// Helper function to scan multiple videos from query results
func scanVideos(rows pgx.Rows) ([]*models.Video, error) {
	var videos []*models.Video

	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}
