package transcript

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
)

// ErrInvalidVTT is returned when content does not start with a WEBVTT header.
var ErrInvalidVTT = errors.New("invalid VTT format: missing WEBVTT header")

var vttTag = regexp.MustCompile(`<[^>]+>`)

// ParseVTT converts a WebVTT caption file into transcript entries. Cue
// identifiers, NOTE/STYLE blocks, cue settings and inline tags are dropped.
func ParseVTT(content string) ([]models.TranscriptEntry, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")

	if !strings.HasPrefix(content, "WEBVTT") {
		return nil, ErrInvalidVTT
	}

	var entries []models.TranscriptEntry
	for _, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")

		timing := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timing = i
				break
			}
		}
		if timing < 0 || timing == len(lines)-1 {
			continue
		}

		bounds := strings.SplitN(lines[timing], "-->", 2)
		start, err := parseVTTTimestamp(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("invalid start timestamp: %w", err)
		}

		text := vttTag.ReplaceAllString(strings.Join(lines[timing+1:], " "), "")
		text = strings.Join(strings.Fields(text), " ")
		if text == "" {
			continue
		}

		entries = append(entries, NewEntry(start, text))
	}

	return entries, nil
}

// parseVTTTimestamp accepts "MM:SS.mmm" and "HH:MM:SS.mmm".
func parseVTTTimestamp(ts string) (float64, error) {
	ts = strings.TrimSpace(ts)
	if i := strings.IndexAny(ts, " \t"); i >= 0 {
		ts = ts[:i]
	}

	whole, frac, ok := strings.Cut(ts, ".")
	if !ok {
		return 0, fmt.Errorf("timestamp %q: missing milliseconds", ts)
	}

	ms, err := strconv.Atoi(frac)
	if err != nil || len(frac) != 3 {
		return 0, fmt.Errorf("timestamp %q: bad milliseconds", ts)
	}

	parts := strings.Split(whole, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("timestamp %q: expected MM:SS.mmm or HH:MM:SS.mmm", ts)
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: %w", ts, err)
		}
		total = total*60 + n
	}

	return float64(total) + float64(ms)/1000, nil
}
