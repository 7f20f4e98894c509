package repository

import (
	"context"
	"fmt"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChannelRepository defines operations for managing channels.
type ChannelRepository interface {
	// UpsertChannel creates a new channel or updates an existing one.
	UpsertChannel(ctx context.Context, channel *models.Channel) error

	// GetChannelByID retrieves a single channel by ID.
	GetChannelByID(ctx context.Context, channelID string) (*models.Channel, error)

	// ListChannels retrieves all channels with pagination.
	ListChannels(ctx context.Context, limit, offset int) ([]*models.Channel, error)
}

type channelRepository struct {
	pool *pgxpool.Pool
}

// NewChannelRepository creates a new ChannelRepository.
func NewChannelRepository(pool *pgxpool.Pool) ChannelRepository {
	return &channelRepository{pool: pool}
}

func (r *channelRepository) UpsertChannel(ctx context.Context, channel *models.Channel) error {
	query := `
		INSERT INTO channels (channel_id, name, handle, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (channel_id) DO UPDATE
		SET name = EXCLUDED.name,
		    handle = COALESCE(EXCLUDED.handle, channels.handle),
		    description = COALESCE(EXCLUDED.description, channels.description),
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		channel.ChannelID,
		channel.Name,
		channel.Handle,
		channel.Description,
		channel.CreatedAt,
		channel.UpdatedAt,
	).Scan(&channel.CreatedAt, &channel.UpdatedAt)

	if err != nil {
		return db.WrapError(err, "upsert channel")
	}

	return nil
}

func (r *channelRepository) GetChannelByID(ctx context.Context, channelID string) (*models.Channel, error) {
	query := `
		SELECT channel_id, name, handle, description, created_at, updated_at
		FROM channels
		WHERE channel_id = $1
	`

	channel := &models.Channel{}
	err := r.pool.QueryRow(ctx, query, channelID).Scan(
		&channel.ChannelID,
		&channel.Name,
		&channel.Handle,
		&channel.Description,
		&channel.CreatedAt,
		&channel.UpdatedAt,
	)

	if err != nil {
		return nil, db.WrapError(err, "get channel by id")
	}

	return channel, nil
}

func (r *channelRepository) ListChannels(ctx context.Context, limit, offset int) ([]*models.Channel, error) {
	query := `
		SELECT channel_id, name, handle, description, created_at, updated_at
		FROM channels
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list channels")
	}
	defer rows.Close()

	return scanChannels(rows)
}

func scanChannels(rows pgx.Rows) ([]*models.Channel, error) {
	var channels []*models.Channel

	for rows.Next() {
		channel := &models.Channel{}
		err := rows.Scan(
			&channel.ChannelID,
			&channel.Name,
			&channel.Handle,
			&channel.Description,
			&channel.CreatedAt,
			&channel.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}

	return channels, nil
}
