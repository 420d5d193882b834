package deps

import "vidconv/internal/config"

// MediaRequirements lists the external binaries a conversion needs.
func MediaRequirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for encoding",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media inspection",
		},
	}
}

// ResolveFFmpeg returns the ffmpeg executable to launch for cfg.
func ResolveFFmpeg(cfg *config.Config) string {
	return ResolveOrName(cfg.FFmpegBinary(), cfg.Paths.ToolsDir)
}

// ResolveFFprobe returns the ffprobe executable to launch for cfg.
func ResolveFFprobe(cfg *config.Config) string {
	return ResolveOrName(cfg.FFprobeBinary(), cfg.Paths.ToolsDir)
}
