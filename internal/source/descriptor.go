package source

import "path/filepath"

// Descriptor is the probed metadata of one input file. A zero Width/Height
// means no video stream was found; a zero DurationSeconds means the duration
// is unknown and progress cannot be computed.
type Descriptor struct {
	Path            string  `json:"path"`
	SizeBytes       int64   `json:"size_bytes"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	DurationSeconds float64 `json:"duration_seconds"`
	BitrateBps      int64   `json:"bitrate_bps"`
}

// Name returns the file's base name.
func (d Descriptor) Name() string {
	return filepath.Base(d.Path)
}

// HasVideo reports whether the file has a usable video stream.
func (d Descriptor) HasVideo() bool {
	return d.Width > 0 && d.Height > 0
}

// HasDuration reports whether the duration is known.
func (d Descriptor) HasDuration() bool {
	return d.DurationSeconds > 0
}
