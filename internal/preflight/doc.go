// Package preflight provides readiness checks for the binaries and
// filesystem paths vidconv depends on.
//
// These checks run in two contexts:
//   - "vidconv convert" calls ForBatch on the planned output directories
//     before the first encode so a full or read-only disk fails fast.
//   - "vidconv status" calls RunAll to display binary and directory health.
package preflight
