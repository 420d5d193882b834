// Package logging assembles structured slog loggers and formatting helpers used
// across vidconv.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so probe and encode code can
// automatically tag log lines with batch IDs, source names, and renditions.
// ProgressSampler keeps encode progress readable in the log file while the
// live display receives every sample.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the tool.
package logging
