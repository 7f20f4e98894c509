// Package transcripts acquires transcripts for the summarization pipeline.
package transcripts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/db/repository"
)

// DefaultFetchTimeout bounds a transcript fetch.
const DefaultFetchTimeout = 30 * time.Second

var (
	// ErrNoTranscriptAvailable means the video has no captions in any language.
	ErrNoTranscriptAvailable = errors.New("no transcript available for this video")

	// ErrFetchTimeout is returned by WithTimeout when the wrapped fetch does
	// not finish in time.
	ErrFetchTimeout = errors.New("transcript fetch timed out")
)

// Fetcher returns the ordered caption entries of a video.
type Fetcher interface {
	FetchTranscript(ctx context.Context, videoID string) ([]models.TranscriptEntry, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, videoID string) ([]models.TranscriptEntry, error)

// FetchTranscript calls f.
func (f FetcherFunc) FetchTranscript(ctx context.Context, videoID string) ([]models.TranscriptEntry, error) {
	return f(ctx, videoID)
}

// StoreFetcher serves transcripts previously stored in the database, e.g.
// uploaded through the transcript endpoint. It is the default source; a
// captions downloader implementing Fetcher plugs in at the same place.
type StoreFetcher struct {
	repo repository.TranscriptRepository
}

// NewStoreFetcher creates a StoreFetcher.
func NewStoreFetcher(repo repository.TranscriptRepository) *StoreFetcher {
	return &StoreFetcher{repo: repo}
}

// FetchTranscript implements Fetcher.
func (s *StoreFetcher) FetchTranscript(ctx context.Context, videoID string) ([]models.TranscriptEntry, error) {
	t, err := s.repo.GetByVideoID(ctx, videoID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNoTranscriptAvailable
		}
		return nil, fmt.Errorf("load stored transcript: %w", err)
	}
	if len(t.Entries) == 0 {
		return nil, ErrNoTranscriptAvailable
	}
	return t.Entries, nil
}

type fetchResult struct {
	entries []models.TranscriptEntry
	err     error
}

type timeoutFetcher struct {
	next    Fetcher
	timeout time.Duration
}

// WithTimeout wraps next in a watchdog. When the timeout elapses the call
// returns ErrFetchTimeout and the in-flight fetch is abandoned; its result is
// discarded when it eventually completes.
func WithTimeout(next Fetcher, timeout time.Duration) Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &timeoutFetcher{next: next, timeout: timeout}
}

func (t *timeoutFetcher) FetchTranscript(ctx context.Context, videoID string) ([]models.TranscriptEntry, error) {
	done := make(chan fetchResult, 1)
	go func() {
		entries, err := t.next.FetchTranscript(ctx, videoID)
		done <- fetchResult{entries: entries, err: err}
	}()

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.entries, r.err
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrFetchTimeout, t.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
