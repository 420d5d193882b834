// Package logs reads the vidconv log file for `vidconv logs`.
//
// Last reads the final N lines with bounded memory; Follow polls from an
// offset and streams new lines until its context ends. Both optionally keep
// only lines for one conversion batch.
package logs
