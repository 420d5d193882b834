package config

import "path/filepath"

const (
	defaultFFmpeg          = "ffmpeg"
	defaultFFprobe         = "ffprobe"
	defaultOnExists        = OnExistsFail
	defaultProgressLogStep = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Collision policies accepted by conversion.on_exists.
const (
	OnExistsFail      = "fail"
	OnExistsOverwrite = "overwrite"
	OnExistsSuffix    = "suffix"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:       filepath.Join(dataHome(), "vidconv", "logs"),
			SettingsFile: filepath.Join(configHome(), "vidconv", "settings.toml"),
			ToolsDir:     filepath.Join(dataHome(), "vidconv", "bin"),
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
		},
		Conversion: Conversion{
			OnExists:        defaultOnExists,
			ProgressLogStep: defaultProgressLogStep,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
