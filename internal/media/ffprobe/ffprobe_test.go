package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParsePrefersStreamValues(t *testing.T) {
	payload := `{
		"programs": [],
		"streams": [{"width": 1920, "height": 1080, "duration": "120.500000", "bit_rate": "4500000"}],
		"format": {"duration": "121.000000", "bit_rate": "4800000"}
	}`
	result, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.Width() != 1920 || result.Height() != 1080 {
		t.Fatalf("unexpected dimensions %dx%d", result.Width(), result.Height())
	}
	if result.DurationSeconds() != 120.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.BitRate() != 4500000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
}

func TestParseFallsBackToFormatValues(t *testing.T) {
	payload := `{
		"streams": [{"width": 1280, "height": 720, "duration": "N/A"}],
		"format": {"duration": "60.25", "bit_rate": "1500000"}
	}`
	result, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.DurationSeconds() != 60.25 {
		t.Fatalf("expected container duration, got %v", result.DurationSeconds())
	}
	if result.BitRate() != 1500000 {
		t.Fatalf("expected container bitrate, got %d", result.BitRate())
	}
}

func TestParseHandlesInvalidNumbers(t *testing.T) {
	payload := `{
		"streams": [{"width": "wide", "height": null, "bit_rate": "nope"}],
		"format": {"duration": "bad", "bit_rate": "-1"}
	}`
	result, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.Width() != 0 || result.Height() != 0 {
		t.Fatalf("expected zero dimensions, got %dx%d", result.Width(), result.Height())
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

func TestParseAudioOnlyFile(t *testing.T) {
	result, err := Parse([]byte(`{"streams": [], "format": {"duration": "30.0"}}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.Height() != 0 {
		t.Fatalf("expected height 0, got %d", result.Height())
	}
	if result.DurationSeconds() != 30 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
}

func TestParseRejectsUnusableOutput(t *testing.T) {
	for _, payload := range []string{"not json", "{}", `{"streams": []}`} {
		_, err := Parse([]byte(payload))
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("Parse(%q) error = %v, want *ParseError", payload, err)
		}
		if parseErr.Diagnostics() != payload {
			t.Fatalf("expected raw output in diagnostics, got %q", parseErr.Diagnostics())
		}
	}
}

func TestNumberValid(t *testing.T) {
	if Number(math.NaN()).Valid() || Number(0).Valid() || Number(-3).Valid() {
		t.Fatal("expected NaN, zero, and negative numbers to be invalid")
	}
	if !Number(1).Valid() {
		t.Fatal("expected positive number to be valid")
	}
}

func TestArgsSelectFirstVideoStream(t *testing.T) {
	args := strings.Join(Args("/media/in.mkv"), " ")
	want := "-v error -select_streams v:0 -show_entries stream=width,height,duration,bit_rate -show_entries format=duration,bit_rate -of json /media/in.mkv"
	if args != want {
		t.Fatalf("Args = %q\nwant %q", args, want)
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestInspectSeparatesStderrFromJSON(t *testing.T) {
	bin := writeScript(t, `echo "warning: something odd" >&2
echo '{"streams":[{"width":640,"height":480}],"format":{"duration":"5.0"}}'
`)
	result, err := Inspect(context.Background(), bin, "/tmp/in.mp4")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.Height() != 480 {
		t.Fatalf("unexpected height %d", result.Height())
	}
}

func TestInspectReportsExitFailure(t *testing.T) {
	bin := writeScript(t, `echo "in.mp4: Invalid data found when processing input" >&2
exit 1
`)
	_, err := Inspect(context.Background(), bin, "/tmp/in.mp4")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if cmdErr.ExitCode != 1 {
		t.Fatalf("exit code = %d, want 1", cmdErr.ExitCode)
	}
	if !strings.Contains(cmdErr.Diagnostics(), "Invalid data found") {
		t.Fatalf("expected stderr in diagnostics, got %q", cmdErr.Diagnostics())
	}
}

func TestInspectMissingBinary(t *testing.T) {
	_, err := Inspect(context.Background(), filepath.Join(t.TempDir(), "absent"), "/tmp/in.mp4")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if cmdErr.ExitCode != -1 {
		t.Fatalf("exit code = %d, want -1 for launch failure", cmdErr.ExitCode)
	}
}
