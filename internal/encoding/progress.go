package encoding

import (
	"bytes"
	"regexp"
	"strconv"
	"time"
)

var (
	durationPattern = regexp.MustCompile(`Duration: (\d{2,}):(\d{2}):(\d{2}\.\d{2})`)
	positionPattern = regexp.MustCompile(`time=(\d{2,}):(\d{2}):(\d{2}\.\d{2})`)
)

// Sample is one progress reading for the active encode.
type Sample struct {
	Percent  float64       `json:"percent"`
	Position time.Duration `json:"position"`
	Duration time.Duration `json:"duration"`
}

// ProgressParser extracts progress from ffmpeg's stderr, one line at a time.
// The first "Duration:" line fixes the total; every later "time=" line yields
// a Sample. Without a duration no samples are produced. Percentages are
// clamped to [0, 100] and never decrease.
type ProgressParser struct {
	duration time.Duration
	best     float64
}

// Duration returns the captured total duration, or 0 if none has been seen.
func (p *ProgressParser) Duration() time.Duration {
	return p.duration
}

// Feed parses one line of encoder output.
func (p *ProgressParser) Feed(line string) (Sample, bool) {
	if p.duration == 0 {
		if m := durationPattern.FindStringSubmatch(line); m != nil {
			if d := clockDuration(m[1], m[2], m[3]); d > 0 {
				p.duration = d
			}
		}
		return Sample{}, false
	}
	m := positionPattern.FindStringSubmatch(line)
	if m == nil {
		return Sample{}, false
	}
	position := clockDuration(m[1], m[2], m[3])
	percent := float64(position) / float64(p.duration) * 100
	percent = min(max(percent, 0), 100)
	if percent > p.best {
		p.best = percent
	}
	return Sample{Percent: p.best, Position: position, Duration: p.duration}, true
}

func clockDuration(hours, minutes, seconds string) time.Duration {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0
	}
	s, err := strconv.ParseFloat(seconds, 64)
	if err != nil {
		return 0
	}
	total := float64(h)*3600 + float64(m)*60 + s
	return time.Duration(total * float64(time.Second))
}

// ScanLines is a bufio.SplitFunc that ends a line at either '\r' or '\n'.
// ffmpeg redraws its status line with bare carriage returns; a "\r\n" pair
// yields an extra empty token.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
