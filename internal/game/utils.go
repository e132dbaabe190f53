package game

import (
	"fmt"
	"time"
)

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// progressLabel is "MM:SS / MM:SS", or just the position for streams of
// unknown length.
func progressLabel(pos, total time.Duration) string {
	if total <= 0 {
		return formatDuration(pos)
	}
	return formatDuration(pos) + " / " + formatDuration(total)
}
