// Package encoding runs one ffmpeg conversion per Task.
//
// BuildArgs turns a Task into the ffmpeg argument list. A Job owns a single
// ffmpeg process: it moves from Spawning to Running when the process exists,
// streams stderr through a ProgressParser, and ends in Succeeded or Failed.
// Cancelling the Job's context kills ffmpeg and fails the job with
// services.ErrAborted.
//
// Runner is the seam the conversion orchestrator depends on. It binds the
// ffmpeg binary, an Executor, and a logger, and builds a Job per Task.
package encoding
