// Package rendition decides which output variants a source can produce and
// what they are called on disk.
package rendition

import (
	"fmt"
	"path/filepath"
	"strings"

	"vidconv/internal/settings"
	"vidconv/internal/source"
)

// Rendition is one output variant of a source file.
type Rendition int

const (
	Video1080p Rendition = iota + 1
	Video720p
	Video480p
	AudioExtract
)

var all = []Rendition{Video1080p, Video720p, Video480p, AudioExtract}

// All returns every rendition, largest video first and audio last.
func All() []Rendition {
	return append([]Rendition(nil), all...)
}

// Tag returns the short name used in output file names and on the CLI.
func (r Rendition) Tag() string {
	switch r {
	case Video1080p:
		return "1080p"
	case Video720p:
		return "720p"
	case Video480p:
		return "480p"
	case AudioExtract:
		return "audio"
	}
	panic(fmt.Sprintf("rendition: unknown value %d", int(r)))
}

func (r Rendition) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rendition(%d)", int(r))
	}
	return r.Tag()
}

// Valid reports whether r is one of the defined renditions.
func (r Rendition) Valid() bool {
	return r >= Video1080p && r <= AudioExtract
}

// IsAudio reports whether r produces an audio-only file.
func (r Rendition) IsAudio() bool {
	return r == AudioExtract
}

// TargetHeight returns the output pixel height of a video rendition and 0 for
// audio.
func (r Rendition) TargetHeight() int {
	switch r {
	case Video1080p:
		return 1080
	case Video720p:
		return 720
	case Video480p:
		return 480
	case AudioExtract:
		return 0
	}
	panic(fmt.Sprintf("rendition: unknown value %d", int(r)))
}

// BitrateTier returns the settings tier holding this rendition's video
// bitrate. Audio has no tier.
func (r Rendition) BitrateTier() (settings.Tier, bool) {
	switch r {
	case Video1080p:
		return settings.Tier1080p, true
	case Video720p:
		return settings.Tier720p, true
	case Video480p:
		return settings.Tier480p, true
	case AudioExtract:
		return "", false
	}
	panic(fmt.Sprintf("rendition: unknown value %d", int(r)))
}

// Extension returns the output file extension, including the dot.
func (r Rendition) Extension() string {
	if r.IsAudio() {
		return ".mp3"
	}
	return ".mp4"
}

// MarshalText encodes the rendition as its tag.
func (r Rendition) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("rendition: unknown value %d", int(r))
	}
	return []byte(r.Tag()), nil
}

// UnmarshalText decodes a tag produced by MarshalText.
func (r *Rendition) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Parse accepts a rendition tag case-insensitively. "mp3" is an alias for
// audio, and the trailing "p" of video tags is optional.
func Parse(value string) (Rendition, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1080p", "1080":
		return Video1080p, nil
	case "720p", "720":
		return Video720p, nil
	case "480p", "480":
		return Video480p, nil
	case "audio", "mp3":
		return AudioExtract, nil
	}
	return 0, fmt.Errorf("unknown rendition %q (want 1080p, 720p, 480p, or audio)", value)
}

// Available lists the renditions a source can produce without upscaling.
// Audio extraction is always offered and always last.
func Available(d source.Descriptor) []Rendition {
	var out []Rendition
	for _, r := range all {
		if Offered(d, r) {
			out = append(out, r)
		}
	}
	return out
}

// Offered reports whether r is available for d.
func Offered(d source.Descriptor, r Rendition) bool {
	if r.IsAudio() {
		return true
	}
	return d.Height >= r.TargetHeight()
}

// NameFor returns the output path for converting inputPath to r: the same
// directory, the input's base name, a "_<tag>" suffix for video, and the
// rendition's extension.
func NameFor(inputPath string, r Rendition) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if r.IsAudio() {
		return filepath.Join(dir, stem+r.Extension())
	}
	return filepath.Join(dir, stem+"_"+r.Tag()+r.Extension())
}
