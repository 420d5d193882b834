// Package deps checks that the external media binaries are installed.
//
// Bare command names resolve against vidconv's local tools directory before
// PATH, so a user-provided ffmpeg build can shadow the system one.
package deps
