package settings

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// Tier is a bitrate lookup key. Renditions map onto tiers; 2160p has no
// rendition yet but keeps its configured bitrate.
type Tier string

const (
	Tier2160p Tier = "2160p"
	Tier1080p Tier = "1080p"
	Tier720p  Tier = "720p"
	Tier480p  Tier = "480p"
)

const (
	MinVideoBitrateKbps = 900
	MaxVideoBitrateKbps = 10000
	videoBitrateStep    = 100
)

var tiers = []Tier{Tier2160p, Tier1080p, Tier720p, Tier480p}

var audioBitrates = []int{64, 96, 128, 256, 320}

var defaultVideoBitrates = map[Tier]int{
	Tier2160p: 5000,
	Tier1080p: 3000,
	Tier720p:  2000,
	Tier480p:  1000,
}

const defaultAudioBitrateKbps = 128

// Tiers returns every bitrate tier, highest first.
func Tiers() []Tier {
	return slices.Clone(tiers)
}

// ParseTier accepts a tier name, case-insensitively. "4k" is an alias for 2160p.
func ParseTier(value string) (Tier, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "4k" {
		return Tier2160p, nil
	}
	for _, t := range tiers {
		if string(t) == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown bitrate tier %q (want 2160p, 1080p, 720p, or 480p)", value)
}

// AudioBitrates returns the accepted MP3 bitrates in ascending order.
func AudioBitrates() []int {
	return slices.Clone(audioBitrates)
}

// EncodeSettings holds the bitrates used to build encoder arguments.
type EncodeSettings struct {
	VideoBitrateKbps map[Tier]int
	AudioBitrateKbps int
}

// Defaults returns the stock encode settings.
func Defaults() EncodeSettings {
	return EncodeSettings{
		VideoBitrateKbps: maps.Clone(defaultVideoBitrates),
		AudioBitrateKbps: defaultAudioBitrateKbps,
	}
}

// Clone returns a deep copy so callers can hold it without sharing the map.
func (s EncodeSettings) Clone() EncodeSettings {
	return EncodeSettings{
		VideoBitrateKbps: maps.Clone(s.VideoBitrateKbps),
		AudioBitrateKbps: s.AudioBitrateKbps,
	}
}

// VideoBitrate returns the configured bitrate for a tier.
func (s EncodeSettings) VideoBitrate(t Tier) (int, bool) {
	kbps, ok := s.VideoBitrateKbps[t]
	return kbps, ok && kbps > 0
}

// ClampVideoBitrate rounds to the nearest multiple of 100 (halves go to the
// even multiple) and clamps into [900, 10000].
func ClampVideoBitrate(kbps int) int {
	rounded := int(math.RoundToEven(float64(kbps)/videoBitrateStep)) * videoBitrateStep
	return min(max(rounded, MinVideoBitrateKbps), MaxVideoBitrateKbps)
}

// ValidVideoBitrate reports whether kbps would be stored unchanged.
func ValidVideoBitrate(kbps int) bool {
	return kbps >= MinVideoBitrateKbps && kbps <= MaxVideoBitrateKbps && kbps%videoBitrateStep == 0
}

// ValidAudioBitrate reports whether kbps is one of the accepted MP3 bitrates.
func ValidAudioBitrate(kbps int) bool {
	return slices.Contains(audioBitrates, kbps)
}

// Provider hands out immutable settings snapshots. A conversion batch takes
// exactly one snapshot when it starts.
type Provider interface {
	Snapshot() EncodeSettings
}

// Static is a Provider that always returns the same settings.
type Static EncodeSettings

// Snapshot returns a copy of the static settings.
func (s Static) Snapshot() EncodeSettings {
	return EncodeSettings(s).Clone()
}
