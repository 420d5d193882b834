package testsupport

import (
	"fmt"
	"strings"
	"testing"
)

// FFprobeStub describes what a fake ffprobe reports. Zero Width/Height omits
// the video stream; ExitCode != 0 makes the probe fail with Stderr.
type FFprobeStub struct {
	Width    int
	Height   int
	Duration string
	BitRate  string
	ExitCode int
	Stderr   string
	// Raw, when set, is printed verbatim instead of a generated report.
	Raw string
}

// Install writes the stub as "ffprobe" into dir and returns its path.
func (s FFprobeStub) Install(t testing.TB, dir string) string {
	t.Helper()
	return WriteScript(t, dir, "ffprobe", s.script())
}

func (s FFprobeStub) script() string {
	var b strings.Builder
	if s.Stderr != "" {
		fmt.Fprintf(&b, "printf '%%s\\n' %s >&2\n", shellQuote(s.Stderr))
	}
	if s.ExitCode != 0 {
		fmt.Fprintf(&b, "exit %d\n", s.ExitCode)
		return b.String()
	}
	report := s.Raw
	if report == "" {
		report = s.report()
	}
	fmt.Fprintf(&b, "printf '%%s\\n' %s\n", shellQuote(report))
	return b.String()
}

func (s FFprobeStub) report() string {
	streams := "[]"
	if s.Width > 0 || s.Height > 0 {
		streams = fmt.Sprintf(`[{"width":%d,"height":%d,"duration":%q,"bit_rate":%q}]`,
			s.Width, s.Height, s.Duration, s.BitRate)
	}
	return fmt.Sprintf(`{"streams":%s,"format":{"duration":%q,"bit_rate":%q}}`,
		streams, s.Duration, s.BitRate)
}

// FFmpegStub describes a fake ffmpeg run. It prints a banner with the
// Duration line, then one "time=" status line per entry in Times separated by
// carriage returns, writes Output bytes to its last argument, and exits.
type FFmpegStub struct {
	Duration string
	Times    []string
	Output   string
	ExitCode int
	Stderr   string
	// Hang makes the stub block after printing progress until it is killed.
	Hang bool
}

// Install writes the stub as "ffmpeg" into dir and returns its path.
func (s FFmpegStub) Install(t testing.TB, dir string) string {
	t.Helper()
	return WriteScript(t, dir, "ffmpeg", s.script())
}

func (s FFmpegStub) script() string {
	var b strings.Builder
	b.WriteString("for last; do :; done\n")
	b.WriteString("printf 'ffmpeg version stub\\n' >&2\n")
	b.WriteString("printf 'Input #0, mov,mp4,m4a,3gp,3g2,mj2, from input:\\n' >&2\n")
	if s.Duration != "" {
		fmt.Fprintf(&b, "printf '  Duration: %s, start: 0.000000, bitrate: 4000 kb/s\\n' >&2\n", s.Duration)
	}
	for _, ts := range s.Times {
		fmt.Fprintf(&b, "printf 'frame=  120 fps=60 q=28.0 size=    512kB time=%s bitrate=1000.0kbits/s speed=2.0x\\r' >&2\n", ts)
	}
	if s.Hang {
		b.WriteString("exec sleep 60\n")
		return b.String()
	}
	if s.Stderr != "" {
		fmt.Fprintf(&b, "printf '\\n%%s\\n' %s >&2\n", shellQuote(s.Stderr))
	}
	if s.ExitCode != 0 {
		fmt.Fprintf(&b, "exit %d\n", s.ExitCode)
		return b.String()
	}
	output := s.Output
	if output == "" {
		output = "encoded"
	}
	fmt.Fprintf(&b, "printf '%%s' %s > \"$last\"\n", shellQuote(output))
	b.WriteString("exit 0\n")
	return b.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
