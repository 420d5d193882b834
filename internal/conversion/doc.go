// Package conversion turns a probed source and a set of rendition selections
// into a batch of encodes and runs them one at a time.
//
// Plan validates selections against the source (no upscaling), resolves
// output paths, and applies the collision policy. Orchestrator snapshots the
// settings provider once per batch, runs each task to completion before
// starting the next, and reports start, progress, and finish events to a Sink.
// A failed task never stops the batch; cancelling the context kills the
// active encode and marks every remaining task as skipped.
package conversion
