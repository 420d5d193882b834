// Package services defines shared utilities consumed by the probe, encode, and
// orchestration layers.
//
// Key responsibilities:
//   - Context helpers that stamp batch IDs, rendition tags, and source names
//     for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (probe, spawn, encode, abort) for summaries and exit handling.
//   - A Diagnostics accessor that surfaces captured tool output verbatim.
//
// Use these helpers when wiring new conversion logic so error handling and
// observability stay uniform across the tool.
package services
