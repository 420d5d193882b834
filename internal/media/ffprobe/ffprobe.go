package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  *Format  `json:"format"`
}

// Stream describes the selected video stream. Only the fields requested via
// -show_entries are populated.
type Stream struct {
	Width    Number `json:"width"`
	Height   Number `json:"height"`
	Duration Number `json:"duration"`
	BitRate  Number `json:"bit_rate"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Duration Number `json:"duration"`
	BitRate  Number `json:"bit_rate"`
}

// Number is a numeric ffprobe field. ffprobe emits most numbers as JSON
// strings ("1920", "N/A") and some as bare numbers; anything unparseable
// decodes to NaN instead of failing the whole document.
type Number float64

// UnmarshalJSON accepts numbers, numeric strings, and garbage.
func (n *Number) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*n = Number(math.NaN())
		return nil
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	*n = Number(parseFloat(text))
	return nil
}

// Valid reports whether the field held a usable, non-negative value.
func (n Number) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}

// CommandError reports a non-zero ffprobe exit or a failed launch.
type CommandError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.ExitCode >= 0 {
		return fmt.Sprintf("ffprobe exited with status %d: %s", e.ExitCode, msg)
	}
	return fmt.Sprintf("ffprobe failed to run: %s", msg)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Diagnostics returns stderr verbatim.
func (e *CommandError) Diagnostics() string { return e.Stderr }

// ParseError reports ffprobe output that is not a usable JSON report.
type ParseError struct {
	Output string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ffprobe output unparseable: %v", e.Err)
	}
	return "ffprobe output has neither stream nor format section"
}

func (e *ParseError) Unwrap() error { return e.Err }

// Diagnostics returns the raw output that failed to parse.
func (e *ParseError) Diagnostics() string { return e.Output }

// Args returns the ffprobe arguments used to inspect path: the first video
// stream's dimensions, duration, and bitrate plus the container's duration
// and bitrate, as JSON.
func Args(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,duration,bit_rate",
		"-show_entries", "format=duration,bit_rate",
		"-of", "json",
		path,
	}
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
// Stdout and stderr are captured separately so warnings never corrupt the JSON.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, Args(path)...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return Result{}, &CommandError{ExitCode: exitCode, Stderr: stderr.String(), Err: err}
	}
	return Parse(stdout.Bytes())
}

// Parse decodes an ffprobe JSON report. A document with neither a stream nor
// a format section is rejected; missing or garbled individual fields are not.
func Parse(output []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, &ParseError{Output: string(output), Err: err}
	}
	if len(result.Streams) == 0 && result.Format == nil {
		return Result{}, &ParseError{Output: string(output)}
	}
	return result, nil
}

// VideoStream returns the selected video stream, if ffprobe reported one.
func (r Result) VideoStream() (Stream, bool) {
	if len(r.Streams) == 0 {
		return Stream{}, false
	}
	return r.Streams[0], true
}

// Width returns the video width in pixels, or 0 when unavailable.
func (r Result) Width() int {
	s, _ := r.VideoStream()
	return intOrZero(s.Width)
}

// Height returns the video height in pixels, or 0 when unavailable.
func (r Result) Height() int {
	s, _ := r.VideoStream()
	return intOrZero(s.Height)
}

// DurationSeconds prefers the stream duration and falls back to the container
// duration. It returns 0 when neither is usable.
func (r Result) DurationSeconds() float64 {
	if s, ok := r.VideoStream(); ok && s.Duration.Valid() {
		return float64(s.Duration)
	}
	if r.Format != nil && r.Format.Duration.Valid() {
		return float64(r.Format.Duration)
	}
	return 0
}

// BitRate prefers the stream bitrate and falls back to the container bitrate,
// in bits per second. It returns 0 when neither is usable.
func (r Result) BitRate() int64 {
	if s, ok := r.VideoStream(); ok && s.BitRate.Valid() {
		return int64(s.BitRate)
	}
	if r.Format != nil && r.Format.BitRate.Valid() {
		return int64(r.Format.BitRate)
	}
	return 0
}

func intOrZero(n Number) int {
	if !n.Valid() {
		return 0
	}
	return int(n)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return math.NaN()
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
