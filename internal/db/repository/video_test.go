//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/db/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedVideo stores a channel and a video so summaries have a parent row.
func seedVideo(t *testing.T, ctx context.Context, td *testutil.TestDatabase, videoID, channelID string, publishedAt time.Time) *models.Video {
	t.Helper()

	channel := models.NewChannel(channelID, "Channel "+channelID)
	require.NoError(t, NewChannelRepository(td.Pool).UpsertChannel(ctx, channel))

	video := models.NewVideo(videoID, "Video "+videoID)
	video.ChannelID = &channelID
	video.ChannelName = channel.Name
	video.PublishedAt = &publishedAt
	require.NoError(t, NewVideoRepository(td.Pool).UpsertVideo(ctx, video))
	return video
}

func TestVideoRepository_UpsertVideo(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	ctx := context.Background()

	t.Run("round trips chapters and metadata", func(t *testing.T) {
		td.TruncateTables(t)

		duration := 600
		views := int64(1234)
		video := models.NewVideo("dQw4w9WgXcQ", "Test Video")
		video.DurationSeconds = &duration
		video.ViewCount = &views
		video.Chapters = []models.Chapter{{Title: "Intro", Time: 0}, {Title: "Main", Time: 120}}
		require.NoError(t, videoRepo.UpsertVideo(ctx, video))

		retrieved, err := videoRepo.GetVideoByID(ctx, "dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, "Test Video", retrieved.Title)
		assert.Equal(t, video.Chapters, retrieved.Chapters)
		require.NotNil(t, retrieved.DurationSeconds)
		assert.Equal(t, 600, *retrieved.DurationSeconds)
		assert.Nil(t, retrieved.ChannelID)
	})

	t.Run("updates existing video", func(t *testing.T) {
		td.TruncateTables(t)

		video := models.NewVideo("dQw4w9WgXcQ", "Test Video")
		require.NoError(t, videoRepo.UpsertVideo(ctx, video))
		createdAt := video.CreatedAt

		video.Title = "Updated Title"
		video.UpdatedAt = time.Now()
		require.NoError(t, videoRepo.UpsertVideo(ctx, video))

		retrieved, err := videoRepo.GetVideoByID(ctx, "dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, "Updated Title", retrieved.Title)
		assert.Equal(t, createdAt.Unix(), retrieved.CreatedAt.Unix())
		assert.Empty(t, retrieved.Chapters)
	})

	t.Run("returns not found", func(t *testing.T) {
		td.TruncateTables(t)

		_, err := videoRepo.GetVideoByID(ctx, "missing")
		assert.True(t, db.IsNotFound(err))
	})
}

func TestVideoRepository_GetVideosByChannelID(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	ctx := context.Background()
	td.TruncateTables(t)

	now := time.Now()
	seedVideo(t, ctx, td, "old", "UC1", now.Add(-48*time.Hour))
	seedVideo(t, ctx, td, "new", "UC1", now)
	seedVideo(t, ctx, td, "other", "UC2", now)

	videos, err := NewVideoRepository(td.Pool).GetVideosByChannelID(ctx, "UC1", 10)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "new", videos[0].VideoID)
	assert.Equal(t, "old", videos[1].VideoID)
}
