package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidconv/internal/testsupport"
)

var hdSource = testsupport.FFprobeStub{Width: 1920, Height: 1080, Duration: "10.000000", BitRate: "4000000"}

var quickEncode = testsupport.FFmpegStub{
	Duration: "00:00:10.00",
	Times:    []string{"00:00:05.00", "00:00:10.00"},
	Output:   "rendition",
}

func TestConvertProducesRendition(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobe(hdSource), testsupport.WithFFmpeg(quickEncode))
	input := env.writeMedia(t, "movie.mkv")

	out, _, err := runCLI(t, []string{"convert", "-r", "720p", input}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "[1/1] Converting movie.mkv to 720p")
	requireContains(t, out, "720p done in")
	requireContains(t, out, "Total converted: 1 of 1 file(s)")

	data, err := os.ReadFile(filepath.Join(env.mediaDir, "movie_720p.mp4"))
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if string(data) != "rendition" {
		t.Fatalf("unexpected output content %q", data)
	}
}

func TestConvertAllOffersEveryRendition(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobe(hdSource), testsupport.WithFFmpeg(quickEncode))
	input := env.writeMedia(t, "movie.mkv")

	out, _, err := runCLI(t, []string{"convert", "--all", "--json", input}, env.configPath)
	if err != nil {
		t.Fatalf("convert --all: %v", err)
	}
	var batches []batchJSON
	if err := json.Unmarshal([]byte(out), &batches); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(batches) != 1 {
		t.Fatalf("expected one batch, got %d", len(batches))
	}
	var tags []string
	for _, outcome := range batches[0].Outcomes {
		tags = append(tags, outcome.Rendition)
		if outcome.Status != "succeeded" {
			t.Fatalf("expected %s to succeed, got %+v", outcome.Rendition, outcome)
		}
	}
	if got := strings.Join(tags, ","); got != "1080p,720p,480p,audio" {
		t.Fatalf("unexpected renditions %q", got)
	}
	if batches[0].Source.Height != 1080 {
		t.Fatalf("expected probed height in report, got %+v", batches[0].Source)
	}
	for _, name := range []string{"movie_1080p.mp4", "movie_720p.mp4", "movie_480p.mp4", "movie.mp3"} {
		if _, err := os.Stat(filepath.Join(env.mediaDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestConvertRejectsUpscale(t *testing.T) {
	small := testsupport.FFprobeStub{Width: 854, Height: 480, Duration: "10.0"}
	env := setupCLITestEnv(t, testsupport.WithFFprobe(small), testsupport.WithFFmpeg(quickEncode))
	input := env.writeMedia(t, "clip.mp4")

	_, stderr, err := runCLI(t, []string{"convert", "-r", "1080p", input}, env.configPath)
	if err == nil {
		t.Fatal("expected convert to fail")
	}
	requireContains(t, stderr, "1080p is not available")
	requireContains(t, stderr, "480p, audio")
	if _, statErr := os.Stat(filepath.Join(env.mediaDir, "clip_1080p.mp4")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output to be written, stat err=%v", statErr)
	}
}

func TestConvertReportsEncoderFailure(t *testing.T) {
	failing := testsupport.FFmpegStub{Duration: "00:00:10.00", ExitCode: 1, Stderr: "Invalid data found when processing input"}
	env := setupCLITestEnv(t, testsupport.WithFFprobe(hdSource), testsupport.WithFFmpeg(failing))
	input := env.writeMedia(t, "broken.mkv")

	out, stderr, err := runCLI(t, []string{"convert", "-r", "480p", input}, env.configPath)
	if err == nil {
		t.Fatal("expected failure")
	}
	requireContains(t, err.Error(), "1 of 1 rendition(s) failed")
	requireContains(t, out, "Total converted: 0 of 1 file(s)")
	requireContains(t, out, "failed")
	requireContains(t, stderr, "Invalid data found when processing input")
}

func TestConvertRequiresSelection(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobe(hdSource), testsupport.WithFFmpeg(quickEncode))
	input := env.writeMedia(t, "movie.mkv")

	_, _, err := runCLI(t, []string{"convert", input}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--rendition or --all") {
		t.Fatalf("expected selection error, got %v", err)
	}
}

func TestConvertCustomNameAndExistingOutput(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobe(hdSource), testsupport.WithFFmpeg(quickEncode))
	input := env.writeMedia(t, "movie.mkv")

	if _, _, err := runCLI(t, []string{"convert", "-r", "audio", "--name", "audio=soundtrack", input}, env.configPath); err != nil {
		t.Fatalf("convert with name: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.mediaDir, "soundtrack.mp3")); err != nil {
		t.Fatalf("expected custom output: %v", err)
	}

	_, stderr, err := runCLI(t, []string{"convert", "-r", "audio", "--name", "audio=soundtrack", input}, env.configPath)
	if err == nil {
		t.Fatal("expected existing output to fail under the default policy")
	}
	requireContains(t, stderr, "soundtrack.mp3")

	if _, _, err := runCLI(t, []string{"convert", "-r", "audio", "--name", "audio=soundtrack", "--on-exists", "suffix", input}, env.configPath); err != nil {
		t.Fatalf("convert with suffix policy: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.mediaDir, "soundtrack-1.mp3")); err != nil {
		t.Fatalf("expected suffixed output: %v", err)
	}
}

func TestConvertDiscoversDirectory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobe(hdSource), testsupport.WithFFmpeg(quickEncode))
	env.writeMedia(t, "holiday.mkv")
	env.writeMedia(t, "concert.mp4")

	out, _, err := runCLI(t, []string{"convert", "-r", "audio", "--dir", env.mediaDir, "--search", "HOLI"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Total converted: 1 of 1 file(s)")
	if _, err := os.Stat(filepath.Join(env.mediaDir, "holiday.mp3")); err != nil {
		t.Fatalf("expected holiday.mp3: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.mediaDir, "concert.mp3")); !os.IsNotExist(err) {
		t.Fatalf("expected concert to be filtered out, stat err=%v", err)
	}

	out, _, err = runCLI(t, []string{"convert", "-r", "audio", "--dir", env.mediaDir, "--search", "nothing"}, env.configPath)
	if err != nil {
		t.Fatalf("convert with no matches: %v", err)
	}
	requireContains(t, out, `No results found for "nothing"`)
}

func TestConvertRussianMessages(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobe(hdSource), testsupport.WithFFmpeg(quickEncode))
	input := env.writeMedia(t, "movie.mkv")

	out, _, err := runCLI(t, []string{"--lang", "ru", "convert", "-r", "480p", input}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Конвертация movie.mkv в 480p")
	requireContains(t, out, "Всего сконвертировано: 1 из 1")
}

func TestParseOutputNames(t *testing.T) {
	if _, err := parseOutputNames([]string{"720p"}); err == nil {
		t.Fatal("expected missing '=' to fail")
	}
	if _, err := parseOutputNames([]string{"360p=x"}); err == nil {
		t.Fatal("expected unknown rendition to fail")
	}
	names, err := parseOutputNames([]string{"mp3= track "})
	if err != nil {
		t.Fatalf("parseOutputNames: %v", err)
	}
	for r, name := range names {
		if !r.IsAudio() || name != "track" {
			t.Fatalf("unexpected mapping %v=%q", r, name)
		}
	}
}
