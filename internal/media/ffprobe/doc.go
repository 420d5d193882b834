// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no vidconv-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output for the first video stream and container
//   - Number: lenient numeric field (strings, numbers, "N/A")
//   - CommandError / ParseError: failure details with captured output
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Helper methods on Result resolve dimensions, duration, and bitrate,
// preferring stream-level values over container-level ones.
package ffprobe
