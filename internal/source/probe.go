package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"vidconv/internal/logging"
	"vidconv/internal/media/ffprobe"
	"vidconv/internal/services"
)

type probeOptions struct {
	binary string
	logger *slog.Logger
}

// ProbeOption customizes Probe.
type ProbeOption func(*probeOptions)

// WithBinary sets the ffprobe executable. Empty means "ffprobe" on PATH.
func WithBinary(path string) ProbeOption {
	return func(o *probeOptions) {
		o.binary = strings.TrimSpace(path)
	}
}

// WithLogger attaches a logger for probe diagnostics.
func WithLogger(logger *slog.Logger) ProbeOption {
	return func(o *probeOptions) {
		o.logger = logger
	}
}

// Probe inspects path and returns its Descriptor. Any failure aborts the
// probe: there is no partial descriptor.
func Probe(ctx context.Context, path string, opts ...ProbeOption) (Descriptor, error) {
	options := probeOptions{binary: "ffprobe"}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.binary == "" {
		options.binary = "ffprobe"
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(options.logger, "probe"))

	info, err := os.Stat(path)
	if err != nil {
		return Descriptor{}, services.Wrap(services.ErrProbeFailed, "probe", "stat input", path, err)
	}
	if info.IsDir() {
		return Descriptor{}, services.Wrap(services.ErrProbeFailed, "probe", "stat input", fmt.Sprintf("%s is a directory", path), nil)
	}

	result, err := ffprobe.Inspect(ctx, options.binary, path)
	if err != nil {
		var parseErr *ffprobe.ParseError
		if errors.As(err, &parseErr) {
			logging.WarnWithContext(logger, "ffprobe output unparseable", "probe_parse_failed",
				logging.String("path", path),
				logging.String("diagnostics", parseErr.Diagnostics()),
				logging.String(logging.FieldErrorHint, "verify the file is a media container ffprobe understands"),
				logging.String(logging.FieldImpact, "file cannot be converted"),
			)
			return Descriptor{}, services.Wrap(services.ErrProbeParse, "probe", "parse report", path, err)
		}
		logging.WarnWithContext(logger, "ffprobe failed", "probe_failed",
			logging.String("path", path),
			logging.String("diagnostics", services.Diagnostics(err)),
			logging.String(logging.FieldErrorHint, "check that ffprobe is installed and the file is readable"),
			logging.String(logging.FieldImpact, "file cannot be converted"),
		)
		return Descriptor{}, services.Wrap(services.ErrProbeFailed, "probe", "run ffprobe", path, err)
	}

	desc := Descriptor{
		Path:            path,
		SizeBytes:       info.Size(),
		Width:           result.Width(),
		Height:          result.Height(),
		DurationSeconds: result.DurationSeconds(),
		BitrateBps:      result.BitRate(),
	}
	logger.Debug("probe complete",
		logging.String(logging.FieldEventType, "probe_complete"),
		logging.String("path", path),
		logging.Int64("size_bytes", desc.SizeBytes),
		logging.Int("width", desc.Width),
		logging.Int("height", desc.Height),
		logging.Float64("duration_seconds", desc.DurationSeconds),
		logging.Int64("bitrate_bps", desc.BitrateBps),
	)
	return desc, nil
}
