package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidconv/internal/testsupport"
)

func TestProbeJSON(t *testing.T) {
	probe := testsupport.FFprobeStub{Width: 1280, Height: 720, Duration: "95.5", BitRate: "2500000"}
	env := setupCLITestEnv(t, testsupport.WithFFprobe(probe), testsupport.WithStubbedBinaries("ffmpeg"))
	input := env.writeMedia(t, "talk.mp4")

	out, _, err := runCLI(t, []string{"probe", "--json", input}, env.configPath)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	var got struct {
		Path            string   `json:"path"`
		SizeBytes       int64    `json:"size_bytes"`
		Width           int      `json:"width"`
		Height          int      `json:"height"`
		DurationSeconds float64  `json:"duration_seconds"`
		BitrateBps      int64    `json:"bitrate_bps"`
		Available       []string `json:"available"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Width != 1280 || got.Height != 720 || got.DurationSeconds != 95.5 || got.BitrateBps != 2500000 {
		t.Fatalf("unexpected descriptor %+v", got)
	}
	if got.SizeBytes != 2048 {
		t.Fatalf("expected file size from stat, got %d", got.SizeBytes)
	}
	if strings.Join(got.Available, ",") != "720p,480p,audio" {
		t.Fatalf("unexpected available renditions %v", got.Available)
	}
}

func TestProbeTable(t *testing.T) {
	probe := testsupport.FFprobeStub{Width: 1920, Height: 1080, Duration: "3723", BitRate: "8000000"}
	env := setupCLITestEnv(t, testsupport.WithFFprobe(probe), testsupport.WithStubbedBinaries("ffmpeg"))
	input := env.writeMedia(t, "film.mkv")

	out, _, err := runCLI(t, []string{"probe", input}, env.configPath)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	requireContains(t, out, "1920x1080")
	requireContains(t, out, "1h 2m 3s")
	requireContains(t, out, "8000 kb/s")
	requireContains(t, out, "Available renditions: 1080p, 720p, 480p, audio")
}

func TestProbeFailureSurfacesError(t *testing.T) {
	probe := testsupport.FFprobeStub{ExitCode: 1, Stderr: "moov atom not found"}
	env := setupCLITestEnv(t, testsupport.WithFFprobe(probe), testsupport.WithStubbedBinaries("ffmpeg"))
	input := env.writeMedia(t, "truncated.mp4")

	_, _, err := runCLI(t, []string{"probe", input}, env.configPath)
	if err == nil {
		t.Fatal("expected probe to fail")
	}
	requireContains(t, err.Error(), "truncated.mp4")
}

func TestFilesListsAndFilters(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())
	env.writeMedia(t, "b-roll.mov")
	env.writeMedia(t, "Interview.MP4")
	testsupport.WriteFile(t, filepath.Join(env.mediaDir, "notes.txt"), 10)

	out, _, err := runCLI(t, []string{"files", "--dir", env.mediaDir}, env.configPath)
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	requireContains(t, out, "b-roll.mov")
	requireContains(t, out, "Interview.MP4")
	if strings.Contains(out, "notes.txt") {
		t.Fatalf("expected non-video files to be hidden:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"files", "--dir", env.mediaDir, "--search", "interview", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("files --json: %v", err)
	}
	var entries []fileJSON
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(entries) != 1 || filepath.Base(entries[0].Path) != "Interview.MP4" || entries[0].SizeBytes != 2048 {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestFilesEmptyDirectory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"files", "--dir", env.mediaDir}, env.configPath)
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	requireContains(t, out, "No video files found in "+env.mediaDir)
}

func TestSettingsRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"settings", "set-video", "1080p", "5050"}, env.configPath)
	if err != nil {
		t.Fatalf("set-video: %v", err)
	}
	requireContains(t, out, "Kbps adjusted to")
	requireContains(t, out, "Settings saved")

	if _, _, err := runCLI(t, []string{"settings", "set-audio", "320"}, env.configPath); err != nil {
		t.Fatalf("set-audio: %v", err)
	}

	out, _, err = runCLI(t, []string{"settings", "show", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var got settingsJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.VideoBitrateKbps["1080p"] != 5000 || got.AudioBitrateKbps != 320 {
		t.Fatalf("unexpected settings %+v", got)
	}
	if got.Path != env.cfg.Paths.SettingsFile {
		t.Fatalf("expected settings path %q, got %q", env.cfg.Paths.SettingsFile, got.Path)
	}

	if _, _, err := runCLI(t, []string{"settings", "reset"}, env.configPath); err != nil {
		t.Fatalf("reset: %v", err)
	}
	out, _, err = runCLI(t, []string{"settings", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "128 Kbps")
	if strings.Contains(out, "5000 Kbps") {
		t.Fatalf("expected reset to drop custom bitrate:\n%s", out)
	}
}

func TestSettingsRejectsInvalidValues(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	cases := [][]string{
		{"settings", "set-audio", "100"},
		{"settings", "set-video", "360p", "2000"},
		{"settings", "set-video", "1080p", "fast"},
		{"settings", "set-language", "klingon"},
	}
	for _, args := range cases {
		if _, _, err := runCLI(t, args, env.configPath); err == nil {
			t.Fatalf("expected %v to fail", args)
		}
	}
	if _, err := os.Stat(env.cfg.Paths.SettingsFile); !os.IsNotExist(err) {
		t.Fatalf("expected rejected values to leave no settings file, stat err=%v", err)
	}
}

func TestSettingsLanguageDrivesMessages(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"settings", "set-language", "russian"}, env.configPath)
	if err != nil {
		t.Fatalf("set-language: %v", err)
	}
	requireContains(t, out, "Настройки сохранены")

	out, _, err = runCLI(t, []string{"files", "--dir", env.mediaDir}, env.configPath)
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	requireContains(t, out, "не найдено видеофайлов")

	out, _, err = runCLI(t, []string{"--lang", "en", "files", "--dir", env.mediaDir}, env.configPath)
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	requireContains(t, out, "No video files found")
}

func TestUnsupportedLangFlagIsRejected(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	_, _, err := runCLI(t, []string{"--lang", "xx", "files", "--dir", env.mediaDir}, env.configPath)
	if err == nil {
		t.Fatal("expected an unsupported --lang value to fail")
	}
	requireContains(t, err.Error(), `language "xx" not supported`)

	if _, _, err := runCLI(t, []string{"--lang", "xx", "config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected --lang to be checked for commands that skip config loading")
	}
}

func TestSettingsPath(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"settings", "path"}, env.configPath)
	if err != nil {
		t.Fatalf("settings path: %v", err)
	}
	if strings.TrimSpace(out) != env.cfg.Paths.SettingsFile {
		t.Fatalf("unexpected path %q", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries(), testsupport.WithOnExists("suffix"))

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Config file: "+env.configPath+"\n")
	requireContains(t, out, "conversion.on_exists")
	requireContains(t, out, "suffix")
	requireContains(t, out, filepath.Join(env.cfg.Paths.ToolsDir, "ffmpeg"))
	requireContains(t, out, env.cfg.Paths.SettingsFile)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "[conversion].on_exists")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse to overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsBadPolicy(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries(), testsupport.WithOnExists("clobber"))

	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected invalid on_exists to fail validation")
	}
}

func TestStatusJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var got struct {
		Dependencies []struct {
			Name      string `json:"name"`
			Available bool   `json:"available"`
		} `json:"dependencies"`
		Checks []struct {
			Name   string `json:"name"`
			Passed bool   `json:"passed"`
		} `json:"checks"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(got.Dependencies) != 2 {
		t.Fatalf("expected ffmpeg and ffprobe, got %+v", got.Dependencies)
	}
	for _, dep := range got.Dependencies {
		if !dep.Available {
			t.Fatalf("expected stubbed %s to be available", dep.Name)
		}
	}
	if len(got.Checks) == 0 {
		t.Fatal("expected directory checks")
	}
}

func TestStatusReportsMissingTool(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries("ffprobe"))
	env.cfg.Tools.FFmpeg = "vidconv-test-missing-ffmpeg"
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err == nil {
		t.Fatal("expected status to fail when ffmpeg is missing")
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "== Dependencies ==")
}

func TestLogsShowsConversionLog(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobe(hdSource), testsupport.WithFFmpeg(quickEncode))
	input := env.writeMedia(t, "movie.mkv")
	if _, _, err := runCLI(t, []string{"convert", "-r", "audio", input}, env.configPath); err != nil {
		t.Fatalf("convert: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "-n", "200"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "conversion batch started")
	requireContains(t, out, "encode complete")

	if _, _, err := runCLI(t, []string{"logs", "-n", "-1"}, env.configPath); err == nil {
		t.Fatal("expected negative line count to fail")
	}
}
