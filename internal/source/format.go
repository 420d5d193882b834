package source

import (
	"fmt"
	"math"
)

const (
	bytesPerMB = 1024 * 1024
	bytesPerGB = 1024 * bytesPerMB
)

// FormatSize renders a byte count in MB, or GB at one gigabyte and above,
// with two decimals.
func FormatSize(bytes int64) string {
	if bytes >= bytesPerGB {
		return fmt.Sprintf("%.2f GB", float64(bytes)/bytesPerGB)
	}
	return fmt.Sprintf("%.2f MB", float64(bytes)/bytesPerMB)
}

// FormatDuration renders seconds as "1h 2m 3s", or "2m 3s" under an hour.
// Negative and non-finite values render as zero.
func FormatDuration(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}
