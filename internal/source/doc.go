// Package source describes input media files.
//
// Probe runs ffprobe once per file and folds the report into a Descriptor
// holding the fields the rest of vidconv cares about: path, byte size,
// pixel dimensions, duration, and bitrate. Discover and Filter list candidate
// video files in a directory for the CLI; FormatSize and FormatDuration render
// descriptor values for humans.
package source
