package encoding

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"vidconv/internal/logging"
	"vidconv/internal/services"
)

// State is the lifecycle position of a Job.
type State int32

const (
	StateSpawning State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSpawning:
		return "spawning"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

const (
	scanBufferSize = 64 * 1024
	maxLineSize    = 1024 * 1024
)

// Job encodes one Task with one ffmpeg process. A Job runs at most once.
type Job struct {
	task     Task
	binary   string
	executor Executor
	logger   *slog.Logger

	state   atomic.Int32
	started atomic.Bool
}

// State returns the job's current state. It is safe to call concurrently
// with Run.
func (j *Job) State() State {
	return State(j.state.Load())
}

// Task returns the task the job encodes.
func (j *Job) Task() Task {
	return j.task
}

// Run starts ffmpeg, reports progress to onSample, and waits for it to exit.
// onSample runs on the calling goroutine and may be nil.
func (j *Job) Run(ctx context.Context, onSample func(Sample)) (Result, error) {
	if !j.started.CompareAndSwap(false, true) {
		return Result{}, services.Wrap(services.ErrValidation, "encode", "run job", "job already started", nil)
	}
	tag := j.task.Rendition.Tag()
	logger := logging.WithContext(ctx, j.logger)

	args := BuildArgs(j.task)
	logger.Info("launching ffmpeg encode",
		logging.String(logging.FieldEventType, "encode_start"),
		logging.String("input", j.task.SourcePath),
		logging.String("output", j.task.OutputPath),
		logging.String("args", strings.Join(args, " ")),
	)

	proc, err := j.executor.Start(ctx, j.binary, args)
	if err != nil {
		j.state.Store(int32(StateFailed))
		if ctx.Err() != nil {
			return Result{}, services.Wrap(services.ErrAborted, "encode", "start ffmpeg", tag, &AbortedError{Cause: context.Cause(ctx)})
		}
		return Result{}, services.Wrap(services.ErrEncoderSpawn, "encode", "start ffmpeg", j.binary, err)
	}
	j.state.Store(int32(StateRunning))

	var (
		parser ProgressParser
		diag   diagnosticLog
	)
	stderr := proc.Stderr()
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, scanBufferSize), maxLineSize)
	scanner.Split(ScanLines)
	for scanner.Scan() {
		line := scanner.Text()
		sample, ok := parser.Feed(line)
		diag.add(line, positionPattern.MatchString(line))
		if ok && onSample != nil {
			onSample(sample)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Debug("stopped reading ffmpeg output", logging.Error(err))
		_, _ = io.Copy(io.Discard, stderr)
	}

	exitCode, waitErr := proc.Wait()
	if waitErr == nil && exitCode == 0 {
		info, err := os.Stat(j.task.OutputPath)
		if err != nil {
			j.state.Store(int32(StateFailed))
			return Result{}, services.Wrap(services.ErrEncodeFailed, "encode", "stat output", j.task.OutputPath, err)
		}
		j.state.Store(int32(StateSucceeded))
		return Result{OutputPath: j.task.OutputPath, SizeBytes: info.Size()}, nil
	}

	j.state.Store(int32(StateFailed))
	if ctx.Err() != nil {
		return Result{}, services.Wrap(services.ErrAborted, "encode", "run ffmpeg", tag,
			&AbortedError{Cause: context.Cause(ctx), Stderr: diag.String()})
	}
	if waitErr != nil {
		return Result{}, services.Wrap(services.ErrEncodeFailed, "encode", "wait for ffmpeg", tag,
			&ExitError{ExitCode: -1, Stderr: diag.String(), Err: waitErr})
	}
	return Result{}, services.Wrap(services.ErrEncodeFailed, "encode", "run ffmpeg", tag,
		&ExitError{ExitCode: exitCode, Stderr: diag.String()})
}
