package encoding

import (
	"fmt"
	"strings"
)

// ExitError reports an ffmpeg process that exited with a non-zero status, or
// one whose exit could not be collected. In the latter case ExitCode is -1 and
// Err holds the wait failure.
type ExitError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wait for ffmpeg: %v%s", e.Err, lastLineSuffix(e.Stderr))
	}
	return fmt.Sprintf("ffmpeg exited with status %d%s", e.ExitCode, lastLineSuffix(e.Stderr))
}

func (e *ExitError) Unwrap() error { return e.Err }

// Diagnostics returns the captured stderr text.
func (e *ExitError) Diagnostics() string { return e.Stderr }

// AbortedError reports an encode that was stopped because its context was
// cancelled. The process has been killed by the time this is returned.
type AbortedError struct {
	Cause  error
	Stderr string
}

func (e *AbortedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ffmpeg killed: %v", e.Cause)
	}
	return "ffmpeg killed"
}

func (e *AbortedError) Unwrap() error { return e.Cause }

// Diagnostics returns the stderr text captured before the kill.
func (e *AbortedError) Diagnostics() string { return e.Stderr }

func lastLineSuffix(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	return ": " + strings.TrimSpace(text)
}

// maxDiagnosticBytes bounds the stderr tail kept for error reports.
const maxDiagnosticBytes = 64 * 1024

// diagnosticLog keeps the tail of ffmpeg's stderr. Consecutive status lines
// collapse into the latest one so a long encode does not push the banner and
// the final error out of the window.
type diagnosticLog struct {
	lines      []string
	size       int
	lastStatus bool
}

func (d *diagnosticLog) add(line string, status bool) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if status && d.lastStatus && len(d.lines) > 0 {
		last := len(d.lines) - 1
		d.size += len(line) - len(d.lines[last])
		d.lines[last] = line
	} else {
		d.lines = append(d.lines, line)
		d.size += len(line) + 1
	}
	d.lastStatus = status
	for d.size > maxDiagnosticBytes && len(d.lines) > 1 {
		d.size -= len(d.lines[0]) + 1
		d.lines = d.lines[1:]
	}
}

func (d *diagnosticLog) String() string {
	return strings.Join(d.lines, "\n")
}
