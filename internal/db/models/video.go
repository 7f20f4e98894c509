package models

import "time"

// Video is an imported YouTube video together with the metadata the
// summarizer renders into summary headers.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Video struct {
	VideoID         string     `db:"video_id" json:"video_id"`
	ChannelID       *string    `db:"channel_id" json:"channel_id,omitempty"`
	ChannelName     string     `db:"channel_name" json:"channel_name"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description"`
	DurationSeconds *int       `db:"duration_seconds" json:"duration_seconds,omitempty"`
	ViewCount       *int64     `db:"view_count" json:"view_count,omitempty"`
	PublishedAt     *time.Time `db:"published_at" json:"published_at,omitempty"`
	Chapters        []Chapter  `db:"chapters" json:"chapters"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// NewVideo creates a new Video with the given information.
func NewVideo(videoID, title string) *Video {
	now := time.Now()
	return &Video{
		VideoID:   videoID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// URL returns the watch URL of the video.
func (v *Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

// Info projects the video onto the metadata block used in summaries.
func (v *Video) Info() *VideoInfo {
	if v == nil {
		return nil
	}
	return &VideoInfo{
		Title:           v.Title,
		ChannelName:     v.ChannelName,
		DurationSeconds: v.DurationSeconds,
		ViewCount:       v.ViewCount,
	}
}

// VideoInfo is the subset of video metadata injected into generated summaries.
type VideoInfo struct {
	Title           string `json:"title"`
	ChannelName     string `json:"channel_name"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
	ViewCount       *int64 `json:"view_count,omitempty"`
}
