package encoding

import (
	"fmt"
	"strconv"

	"vidconv/internal/rendition"
	"vidconv/internal/settings"
)

// Fixed encoder parameters shared by every video rendition.
const (
	videoCodec       = "libx264"
	videoPreset      = "medium"
	videoCRF         = "23"
	videoAudioCodec  = "aac"
	videoAudioKbps   = 128
	audioExtractCode = "libmp3lame"
)

// Task is one unit of encoding work: a source, a rendition, the destination
// path, and the settings snapshot in effect for the batch.
type Task struct {
	SourcePath string
	OutputPath string
	Rendition  rendition.Rendition
	Settings   settings.EncodeSettings
}

// Result describes a finished encode.
type Result struct {
	OutputPath string `json:"output_path"`
	SizeBytes  int64  `json:"size_bytes"`
}

// VideoBitrate returns the video bitrate for the task's rendition.
func (t Task) VideoBitrate() (int, bool) {
	tier, ok := t.Rendition.BitrateTier()
	if !ok {
		return 0, false
	}
	return t.Settings.VideoBitrate(tier)
}

// BuildArgs returns the ffmpeg arguments for task. Video renditions encode
// H.264 at the tier bitrate with a 1.5x peak and 2x buffer, scale to the
// target height keeping aspect ratio, and carry AAC audio. Audio extraction
// drops the video stream and encodes MP3 at the configured bitrate.
//
// Callers must ensure a video rendition has a bitrate; BuildArgs does not
// revalidate and panics if none is configured.
func BuildArgs(task Task) []string {
	args := []string{"-nostdin", "-i", task.SourcePath, "-y"}
	if task.Rendition.IsAudio() {
		args = append(args,
			"-vn",
			"-c:a", audioExtractCode,
			"-b:a", kbps(float64(task.Settings.AudioBitrateKbps)),
		)
		return append(args, task.OutputPath)
	}

	bitrate, ok := task.VideoBitrate()
	if !ok {
		panic(fmt.Sprintf("encoding: no video bitrate for rendition %s", task.Rendition))
	}
	args = append(args,
		"-c:v", videoCodec,
		"-preset", videoPreset,
		"-crf", videoCRF,
		"-b:v", kbps(float64(bitrate)),
		"-maxrate", kbps(float64(bitrate)*1.5),
		"-bufsize", kbps(float64(bitrate)*2),
		"-vf", fmt.Sprintf("scale=-2:%d", task.Rendition.TargetHeight()),
		"-c:a", videoAudioCodec,
		"-b:a", kbps(videoAudioKbps),
		"-movflags", "+faststart",
	)
	return append(args, task.OutputPath)
}

func kbps(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "k"
}
