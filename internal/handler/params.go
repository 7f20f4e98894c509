package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ad-tracker/video-summarizer-go/internal/service"
	"github.com/ad-tracker/video-summarizer-go/internal/validation"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Message: "invalid " + name + ": " + c.Param(name)}
	}
	return id, nil
}

func parseChapterTime(c *gin.Context, v *validation.Validator) (int, error) {
	t, err := strconv.Atoi(c.Param("chapterTime"))
	if err != nil {
		return 0, &service.ValidationError{Message: "invalid chapter time: " + c.Param("chapterTime")}
	}
	if err := v.ValidateChapterTime(t); err != nil {
		return 0, invalid(err)
	}
	return t, nil
}

// videoIDParam returns the videoId path parameter once it passes validation.
func videoIDParam(c *gin.Context, v *validation.Validator) (string, error) {
	videoID := c.Param("videoId")
	if err := v.ValidateVideoID(videoID); err != nil {
		return "", invalid(err)
	}
	return videoID, nil
}

// invalid turns a validator error into a 400 response error.
func invalid(err error) error {
	return &service.ValidationError{Message: err.Error()}
}
