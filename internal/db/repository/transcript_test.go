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

func TestTranscriptRepository(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewTranscriptRepository(td.Pool)
	ctx := context.Background()

	t.Run("upsert replaces previous transcript", func(t *testing.T) {
		td.TruncateTables(t)
		seedVideo(t, ctx, td, "vid1", "UC1", time.Now())

		first := &models.Transcript{
			VideoID:       "vid1",
			Entries:       []models.TranscriptEntry{{Time: 0, Text: "hello", FormattedTime: "00:00"}},
			FormattedText: "hello",
		}
		require.NoError(t, repo.Upsert(ctx, first))
		assert.Equal(t, db.GenerateContentHash("hello"), first.ContentHash)

		second := &models.Transcript{
			VideoID:       "vid1",
			Entries:       []models.TranscriptEntry{{Time: 1.5, Text: "world", FormattedTime: "00:01"}},
			FormattedText: "world",
		}
		require.NoError(t, repo.Upsert(ctx, second))

		got, err := repo.GetByVideoID(ctx, "vid1")
		require.NoError(t, err)
		assert.Equal(t, "world", got.FormattedText)
		require.Len(t, got.Entries, 1)
		assert.InDelta(t, 1.5, got.Entries[0].Time, 1e-9)
	})

	t.Run("missing transcript is not found", func(t *testing.T) {
		td.TruncateTables(t)

		_, err := repo.GetByVideoID(ctx, "vid1")
		assert.True(t, db.IsNotFound(err))
	})
}
