package encoding

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"time"
)

var commandContext = exec.CommandContext

// DefaultWaitDelay bounds how long a killed ffmpeg may keep its stderr open.
const DefaultWaitDelay = 5 * time.Second

// Process is a started encoder process.
type Process interface {
	// Stderr streams the process's diagnostic output until it exits.
	Stderr() io.Reader
	// Wait blocks until the process exits. A non-zero exit is reported through
	// exitCode with a nil error; err is reserved for failures to wait at all.
	Wait() (exitCode int, err error)
}

// Executor starts encoder processes. The process must be killed when ctx is
// cancelled.
type Executor interface {
	Start(ctx context.Context, binary string, args []string) (Process, error)
}

// CommandExecutor runs processes with os/exec.
type CommandExecutor struct {
	WaitDelay time.Duration
}

// Start launches binary with args. Cancelling ctx kills the process.
func (e CommandExecutor) Start(ctx context.Context, binary string, args []string) (Process, error) {
	cmd := commandContext(ctx, binary, args...) //nolint:gosec
	pr, pw := io.Pipe()
	cmd.Stderr = pw
	cmd.WaitDelay = e.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}
	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		return nil, err
	}
	proc := &commandProcess{stderr: pr, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		proc.exitCode, proc.err = exitStatus(cmd, err)
		_ = pw.Close()
		close(proc.done)
	}()
	return proc, nil
}

type commandProcess struct {
	stderr   *io.PipeReader
	done     chan struct{}
	exitCode int
	err      error
}

func (p *commandProcess) Stderr() io.Reader { return p.stderr }

func (p *commandProcess) Wait() (int, error) {
	// Unblock the copier if the caller stopped reading early.
	go func() { _, _ = io.Copy(io.Discard, p.stderr) }()
	<-p.done
	return p.exitCode, p.err
}

func exitStatus(cmd *exec.Cmd, err error) (int, error) {
	if err == nil || errors.Is(err, exec.ErrWaitDelay) {
		if cmd.ProcessState != nil {
			return cmd.ProcessState.ExitCode(), nil
		}
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

var _ Executor = CommandExecutor{}
