package encoding

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"vidconv/internal/logging"
)

// Runner builds and runs a Job per Task against one ffmpeg binary.
type Runner struct {
	binary   string
	executor Executor
	logger   *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithExecutor replaces the os/exec based executor.
func WithExecutor(executor Executor) RunnerOption {
	return func(r *Runner) {
		if executor != nil {
			r.executor = executor
		}
	}
}

// WithWaitDelay sets how long a killed ffmpeg may hold its output open
// before the runner stops waiting for it.
func WithWaitDelay(delay time.Duration) RunnerOption {
	return func(r *Runner) {
		r.executor = CommandExecutor{WaitDelay: delay}
	}
}

// WithLogger attaches a logger to every job.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner returns a Runner for binary. Empty means "ffmpeg" on PATH.
func NewRunner(binary string, opts ...RunnerOption) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	r := &Runner{binary: binary, executor: CommandExecutor{}}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.logger = logging.NewComponentLogger(r.logger, "encoder")
	return r
}

// NewJob prepares a job for task without starting it.
func (r *Runner) NewJob(task Task) *Job {
	return &Job{task: task, binary: r.binary, executor: r.executor, logger: r.logger}
}

// Run encodes task and blocks until ffmpeg exits or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, task Task, onSample func(Sample)) (Result, error) {
	return r.NewJob(task).Run(ctx, onSample)
}
