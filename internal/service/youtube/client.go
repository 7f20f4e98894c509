// Package youtube fetches video and channel metadata from the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrVideoNotFound is returned when the API knows no video with the given ID.
var ErrVideoNotFound = errors.New("video not found on YouTube")

// ErrChannelNotFound is returned when the API knows no channel with the given ID.
var ErrChannelNotFound = errors.New("channel not found on YouTube")

// Client wraps the YouTube Data API v3 client
type Client struct {
	service *youtube.Service
}

// VideoMetadata is what the importer needs to know about a video.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoMetadata struct {
	VideoID         string
	Title           string
	Description     string
	ChannelID       string
	ChannelTitle    string
	DurationSeconds *int
	ViewCount       *int64
	PublishedAt     *time.Time
	Language        *string
}

// ChannelMetadata describes a channel.
type ChannelMetadata struct {
	ChannelID   string
	Title       string
	Handle      *string
	Description *string
}

// NewClient creates a new YouTube API client. Extra options are appended
// after the API key, e.g. option.WithEndpoint in tests.
func NewClient(apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service}, nil
}

// FetchVideoMetadata retrieves snippet, duration and view count of one video.
func (c *Client) FetchVideoMetadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	response, err := c.service.Videos.
		List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video from YouTube API: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}

	return mapVideo(response.Items[0]), nil
}

func mapVideo(video *youtube.Video) *VideoMetadata {
	meta := &VideoMetadata{VideoID: video.Id}

	if video.Snippet != nil {
		meta.Title = video.Snippet.Title
		meta.Description = video.Snippet.Description
		meta.ChannelID = video.Snippet.ChannelId
		meta.ChannelTitle = video.Snippet.ChannelTitle
		meta.Language = strPtr(video.Snippet.DefaultAudioLanguage)
		if meta.Language == nil {
			meta.Language = strPtr(video.Snippet.DefaultLanguage)
		}
		if video.Snippet.PublishedAt != "" {
			if t, err := parseYouTubeTime(video.Snippet.PublishedAt); err == nil {
				meta.PublishedAt = &t
			}
		}
	}

	if video.ContentDetails != nil && video.ContentDetails.Duration != "" {
		if seconds, err := ParseVideoDuration(video.ContentDetails.Duration); err == nil {
			meta.DurationSeconds = &seconds
		}
	}

	if video.Statistics != nil {
		views := int64(video.Statistics.ViewCount)
		meta.ViewCount = &views
	}

	return meta
}

// FetchChannel retrieves a channel's title, handle and description.
func (c *Client) FetchChannel(ctx context.Context, channelID string) (*ChannelMetadata, error) {
	response, err := c.service.Channels.
		List([]string{"snippet"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel from YouTube API: %w", err)
	}
	if len(response.Items) == 0 || response.Items[0].Snippet == nil {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}

	snippet := response.Items[0].Snippet
	return &ChannelMetadata{
		ChannelID:   response.Items[0].Id,
		Title:       snippet.Title,
		Handle:      strPtr(snippet.CustomUrl),
		Description: strPtr(snippet.Description),
	}, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseYouTubeTime parses RFC3339 timestamps from YouTube API
func parseYouTubeTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseVideoDuration converts ISO 8601 duration to seconds
// Example: "PT4M13S" -> 253 seconds
func ParseVideoDuration(duration string) (int, error) {
	if !strings.HasPrefix(duration, "PT") {
		return 0, fmt.Errorf("invalid duration format: %s", duration)
	}

	// Remove PT prefix
	duration = strings.TrimPrefix(duration, "PT")

	var hours, minutes, seconds int

	// Parse hours
	if hIdx := strings.Index(duration, "H"); hIdx != -1 {
		h, err := strconv.Atoi(duration[:hIdx])
		if err != nil {
			return 0, err
		}
		hours = h
		duration = duration[hIdx+1:]
	}

	// Parse minutes
	if mIdx := strings.Index(duration, "M"); mIdx != -1 {
		m, err := strconv.Atoi(duration[:mIdx])
		if err != nil {
			return 0, err
		}
		minutes = m
		duration = duration[mIdx+1:]
	}

	// Parse seconds
	if sIdx := strings.Index(duration, "S"); sIdx != -1 {
		s, err := strconv.Atoi(duration[:sIdx])
		if err != nil {
			return 0, err
		}
		seconds = s
	}

	return hours*3600 + minutes*60 + seconds, nil
}
