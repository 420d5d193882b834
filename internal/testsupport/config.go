package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"vidconv/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.SettingsFile = filepath.Join(base, "config", "settings.toml")
	cfgVal.Paths.ToolsDir = filepath.Join(base, "bin")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOnExists sets the output collision policy on the test config.
func WithOnExists(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.OnExists = policy
	}
}

// WithStubbedBinaries writes no-op executables for the provided names into the
// tools directory. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		for _, name := range names {
			WriteScript(b.t, b.cfg.Paths.ToolsDir, name, "exit 0\n")
		}
	}
}

// WithFFprobe installs a stub ffprobe that reports the given stream and sets
// it as the configured binary.
func WithFFprobe(stub FFprobeStub) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tools.FFprobe = stub.Install(b.t, b.cfg.Paths.ToolsDir)
	}
}

// WithFFmpeg installs a stub ffmpeg and sets it as the configured binary.
func WithFFmpeg(stub FFmpegStub) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tools.FFmpeg = stub.Install(b.t, b.cfg.Paths.ToolsDir)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}

// WriteScript writes an executable /bin/sh script named name into dir and
// returns its path.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
