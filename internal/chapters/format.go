package chapters

import (
	"fmt"
	"math"
)

// FormatTimestamp renders seconds as MM:SS, or HH:MM:SS once hours are non-zero.
// Fractional seconds are truncated.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatDuration renders a video length for metadata blocks.
func FormatDuration(seconds int) string {
	return FormatTimestamp(float64(seconds))
}
