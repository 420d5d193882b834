// Package settings owns per-user encode preferences: video bitrate per tier,
// the MP3 bitrate, and the UI language.
//
// The Store persists them as TOML (atomic writes under a file lock) and acts
// as the Provider conversions snapshot once per batch. Video bitrates are
// always stored clamped to [900, 10000] in steps of 100; MP3 bitrates are
// restricted to 64, 96, 128, 256, and 320.
package settings
