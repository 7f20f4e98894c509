// Package chapters resolves a video's chapter list from extracted chapter
// markers or, failing that, from timestamps written in the description.
package chapters

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
)

// UnknownTitle replaces missing or blank chapter titles.
const UnknownTitle = "Unknown Chapter"

// MinDescriptionChapters is the number of distinct description timestamps
// required before they are accepted as a chapter list.
const MinDescriptionChapters = 2

// RawChapter is a chapter marker as reported by an extraction source.
// Either field may be missing.
type RawChapter struct {
	Title *string  `json:"title"`
	Time  *float64 `json:"start_time"`
}

var descriptionLine = regexp.MustCompile(`^[\[(]?(\d{1,2}:\d{2}(?::\d{2})?)[\])]?(?:\s*[-–—:]\s*|\s+)(\S.*)$`)

// Resolve returns a validated chapter list: unique times, ascending, none past
// duration. Source chapters win over the description when any are given.
// An empty result is returned as nil.
func Resolve(source []RawChapter, description string, duration *int) []models.Chapter {
	if len(source) > 0 {
		return normalize(fromSource(source), duration)
	}

	if strings.TrimSpace(description) == "" {
		return nil
	}

	candidates := normalize(ParseDescription(description), duration)
	if len(candidates) < MinDescriptionChapters {
		return nil
	}
	return candidates
}

func fromSource(source []RawChapter) []models.Chapter {
	out := make([]models.Chapter, 0, len(source))
	for _, raw := range source {
		title := UnknownTitle
		if raw.Title != nil {
			if t := strings.TrimSpace(*raw.Title); t != "" {
				title = t
			}
		}

		seconds := 0
		if raw.Time != nil && *raw.Time > 0 && !math.IsInf(*raw.Time, 0) {
			seconds = int(*raw.Time)
		}

		out = append(out, models.Chapter{Title: title, Time: seconds})
	}
	return out
}

// ParseDescription extracts every "<timestamp> <separator> <title>" line from a
// video description. Lines that do not parse are skipped.
func ParseDescription(description string) []models.Chapter {
	var out []models.Chapter
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := descriptionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		seconds, ok := ParseTimestamp(m[1])
		if !ok {
			continue
		}

		title := strings.TrimSpace(m[2])
		if title == "" {
			continue
		}

		out = append(out, models.Chapter{Title: title, Time: seconds})
	}
	return out
}

// normalize drops duplicate times (first wins) and chapters beyond duration,
// then sorts by time.
func normalize(in []models.Chapter, duration *int) []models.Chapter {
	seen := make(map[int]struct{}, len(in))
	var out []models.Chapter

	for _, ch := range in {
		if _, dup := seen[ch.Time]; dup {
			continue
		}
		if duration != nil && *duration > 0 && ch.Time > *duration {
			continue
		}
		seen[ch.Time] = struct{}{}
		out = append(out, ch)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// ParseTimestamp converts "SS", "MM:SS" or "HH:MM:SS" to seconds. The
// rightmost field is seconds. Seconds (and minutes when hours are present)
// must be below 60.
func ParseTimestamp(ts string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, false
	}

	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}

		// position counted from the right: 0 = seconds, 1 = minutes, 2 = hours
		pos := len(parts) - 1 - i
		if pos == 0 && len(parts) > 1 && n >= 60 {
			return 0, false
		}
		if pos == 1 && len(parts) == 3 && n >= 60 {
			return 0, false
		}

		switch pos {
		case 2:
			total += n * 3600
		case 1:
			total += n * 60
		default:
			total += n
		}
	}
	return total, true
}
