// Package config loads, normalizes, and validates vidconv configuration data.
//
// It supplies repository defaults (XDG-aware), expands user paths including
// tilde shortcuts, reads TOML files, and honours the VIDCONV_FFMPEG and
// VIDCONV_FFPROBE environment overrides. The Config type centralizes the
// knobs the CLI needs: where logs and settings live, which media tools to run,
// and how conversions treat existing outputs.
//
// Always obtain configuration through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
