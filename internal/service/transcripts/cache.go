package transcripts

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/metrics"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

const cacheKeyPrefix = "transcript:"

// Store is the subset of *redis.Client used by the cache.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCache caches fetched transcripts in Redis. Redis failures degrade to
// uncached fetches.
type RedisCache struct {
	next    Fetcher
	store   Store
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRedisCache wraps next with a Redis read-through cache.
func NewRedisCache(next Fetcher, store Store, ttl time.Duration, m *metrics.Metrics) *RedisCache {
	return &RedisCache{
		next:    next,
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  logger.Named("transcript-cache"),
	}
}

// CacheKey returns the Redis key of a video's transcript.
func CacheKey(videoID string) string {
	return cacheKeyPrefix + videoID
}

// FetchTranscript implements Fetcher.
func (c *RedisCache) FetchTranscript(ctx context.Context, videoID string) ([]models.TranscriptEntry, error) {
	key := CacheKey(videoID)

	data, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var entries []models.TranscriptEntry
		if jsonErr := json.Unmarshal(data, &entries); jsonErr == nil && len(entries) > 0 {
			c.metrics.TranscriptCache(true)
			return entries, nil
		}
		c.logger.Warn("Discarding corrupt cached transcript", zap.String("videoId", videoID))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Transcript cache read failed", zap.String("videoId", videoID), zap.Error(err))
	}
	c.metrics.TranscriptCache(false)

	entries, err := c.next.FetchTranscript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(entries)
	if err == nil {
		err = c.store.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("Transcript cache write failed", zap.String("videoId", videoID), zap.Error(err))
	}

	return entries, nil
}

// Invalidate drops a cached transcript, e.g. after a new upload.
func (c *RedisCache) Invalidate(ctx context.Context, videoID string) error {
	return c.store.Del(ctx, CacheKey(videoID)).Err()
}
