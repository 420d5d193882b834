// Package main hosts the vidconv CLI entrypoint and command graph.
//
// The Cobra-based command tree probes sources, converts them into the
// requested renditions with live progress, lists candidate files, and edits
// the persisted encode settings. It centralizes configuration resolution,
// logger construction, and UI language selection so subcommands can focus on
// presentation.
//
// Keep this package lean: conversion behaviour lives in internal/conversion
// and internal/encoding; commands here only translate flags into calls and
// render the results.
package main
