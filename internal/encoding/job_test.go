package encoding

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidconv/internal/rendition"
	"vidconv/internal/services"
	"vidconv/internal/settings"
	"vidconv/internal/testsupport"
)

type stubExecutor struct {
	stderr   string
	exitCode int
	waitErr  error
	startErr error
	output   string

	binary string
	args   []string
}

func (s *stubExecutor) Start(_ context.Context, binary string, args []string) (Process, error) {
	s.binary = binary
	s.args = append([]string(nil), args...)
	if s.startErr != nil {
		return nil, s.startErr
	}
	if s.output != "" {
		if err := os.WriteFile(args[len(args)-1], []byte(s.output), 0o644); err != nil {
			return nil, err
		}
	}
	return &stubProcess{stderr: strings.NewReader(s.stderr), exitCode: s.exitCode, waitErr: s.waitErr}, nil
}

type stubProcess struct {
	stderr   io.Reader
	exitCode int
	waitErr  error
}

func (p *stubProcess) Stderr() io.Reader  { return p.stderr }
func (p *stubProcess) Wait() (int, error) { return p.exitCode, p.waitErr }

func videoTask(t *testing.T) Task {
	t.Helper()
	dir := t.TempDir()
	return Task{
		SourcePath: filepath.Join(dir, "in.mp4"),
		OutputPath: filepath.Join(dir, "in_720p.mp4"),
		Rendition:  rendition.Video720p,
		Settings:   settings.Defaults(),
	}
}

func TestJobSucceedsAndReportsProgress(t *testing.T) {
	exec := &stubExecutor{
		stderr: "  Duration: 00:01:40.00, start: 0.0\nframe=1 time=00:00:25.00 bitrate=1\rframe=2 time=00:00:50.00 bitrate=1\r",
		output: "0123456789",
	}
	runner := NewRunner("/opt/ffmpeg", WithExecutor(exec))
	task := videoTask(t)
	job := runner.NewJob(task)
	if job.State() != StateSpawning {
		t.Fatalf("initial state = %v", job.State())
	}

	var percents []float64
	result, err := job.Run(context.Background(), func(s Sample) {
		if job.State() != StateRunning {
			t.Errorf("sample delivered in state %v", job.State())
		}
		percents = append(percents, s.Percent)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.OutputPath != task.OutputPath || result.SizeBytes != 10 {
		t.Fatalf("unexpected result %+v", result)
	}
	if job.State() != StateSucceeded {
		t.Fatalf("final state = %v", job.State())
	}
	if len(percents) != 2 || percents[0] != 25 || percents[1] != 50 {
		t.Fatalf("percents = %v", percents)
	}
	if exec.binary != "/opt/ffmpeg" || exec.args[len(exec.args)-1] != task.OutputPath {
		t.Fatalf("unexpected invocation %s %v", exec.binary, exec.args)
	}
}

func TestJobFailureCarriesExitCodeAndDiagnostics(t *testing.T) {
	exec := &stubExecutor{
		stderr:   "Duration: 00:00:10.00\n[libx264] Unknown encoder option\nConversion failed!\n",
		exitCode: 1,
	}
	job := NewRunner("ffmpeg", WithExecutor(exec)).NewJob(videoTask(t))
	_, err := job.Run(context.Background(), nil)
	if !errors.Is(err, services.ErrEncodeFailed) {
		t.Fatalf("expected ErrEncodeFailed, got %v", err)
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode != 1 {
		t.Fatalf("expected ExitError with code 1, got %v", err)
	}
	if !strings.Contains(services.Diagnostics(err), "Unknown encoder option") {
		t.Fatalf("diagnostics = %q", services.Diagnostics(err))
	}
	if !strings.Contains(err.Error(), "Conversion failed!") {
		t.Fatalf("expected last diagnostic line in message, got %q", err.Error())
	}
	if job.State() != StateFailed {
		t.Fatalf("state = %v", job.State())
	}
}

func TestJobWaitFailureKeepsDiagnostics(t *testing.T) {
	waitErr := errors.New("wait: no child processes")
	exec := &stubExecutor{
		stderr:  "Duration: 00:00:10.00\n[mp4 @ 0x1] moov atom not found\n",
		waitErr: waitErr,
	}
	job := NewRunner("ffmpeg", WithExecutor(exec)).NewJob(videoTask(t))
	_, err := job.Run(context.Background(), nil)
	if !errors.Is(err, services.ErrEncodeFailed) || !errors.Is(err, waitErr) {
		t.Fatalf("expected ErrEncodeFailed wrapping the wait error, got %v", err)
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode != -1 {
		t.Fatalf("expected ExitError with code -1, got %v", err)
	}
	if !strings.Contains(services.Diagnostics(err), "moov atom not found") {
		t.Fatalf("diagnostics = %q", services.Diagnostics(err))
	}
	if job.State() != StateFailed {
		t.Fatalf("state = %v", job.State())
	}
}

func TestJobSpawnFailureNeverRuns(t *testing.T) {
	exec := &stubExecutor{startErr: errors.New("exec: \"ffmpeg\": executable file not found in $PATH")}
	job := NewRunner("ffmpeg", WithExecutor(exec)).NewJob(videoTask(t))
	var samples int
	_, err := job.Run(context.Background(), func(Sample) { samples++ })
	if !errors.Is(err, services.ErrEncoderSpawn) {
		t.Fatalf("expected ErrEncoderSpawn, got %v", err)
	}
	if services.Kind(err) != services.KindEncodeSpawn {
		t.Fatalf("kind = %q", services.Kind(err))
	}
	if samples != 0 || job.State() != StateFailed {
		t.Fatalf("samples=%d state=%v", samples, job.State())
	}
}

func TestJobMissingOutputFails(t *testing.T) {
	exec := &stubExecutor{stderr: "done\n"}
	_, err := NewRunner("ffmpeg", WithExecutor(exec)).Run(context.Background(), videoTask(t), nil)
	if !errors.Is(err, services.ErrEncodeFailed) {
		t.Fatalf("expected ErrEncodeFailed for missing output, got %v", err)
	}
}

func TestJobRunsOnlyOnce(t *testing.T) {
	exec := &stubExecutor{output: "x"}
	job := NewRunner("ffmpeg", WithExecutor(exec)).NewJob(videoTask(t))
	if _, err := job.Run(context.Background(), nil); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := job.Run(context.Background(), nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("second Run error = %v, want ErrValidation", err)
	}
}

func TestCommandExecutorEndToEnd(t *testing.T) {
	dir := t.TempDir()
	bin := testsupport.FFmpegStub{
		Duration: "00:01:40.00",
		Times:    []string{"00:00:50.00", "00:01:40.00"},
		Output:   "mp4 bytes",
	}.Install(t, filepath.Join(dir, "bin"))
	task := videoTask(t)

	var percents []float64
	result, err := NewRunner(bin).Run(context.Background(), task, func(s Sample) {
		percents = append(percents, s.Percent)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.SizeBytes != int64(len("mp4 bytes")) {
		t.Fatalf("size = %d", result.SizeBytes)
	}
	if len(percents) != 2 || percents[0] != 50 || percents[1] != 100 {
		t.Fatalf("percents = %v", percents)
	}
}

func TestCommandExecutorNonZeroExit(t *testing.T) {
	bin := testsupport.FFmpegStub{ExitCode: 3, Stderr: "Error opening output file"}.Install(t, t.TempDir())
	_, err := NewRunner(bin).Run(context.Background(), videoTask(t), nil)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %v", err)
	}
	if !strings.Contains(exitErr.Diagnostics(), "Error opening output file") {
		t.Fatalf("diagnostics = %q", exitErr.Diagnostics())
	}
}

func TestCommandExecutorMissingBinary(t *testing.T) {
	_, err := NewRunner(filepath.Join(t.TempDir(), "no-ffmpeg")).Run(context.Background(), videoTask(t), nil)
	if !errors.Is(err, services.ErrEncoderSpawn) {
		t.Fatalf("expected ErrEncoderSpawn, got %v", err)
	}
}

func TestCancellationKillsEncoder(t *testing.T) {
	bin := testsupport.FFmpegStub{Duration: "00:10:00.00", Times: []string{"00:01:00.00"}, Hang: true}.Install(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	job := NewRunner(bin).NewJob(videoTask(t))
	_, err := job.Run(ctx, func(Sample) { cancel() })
	if !errors.Is(err, services.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
	var aborted *AbortedError
	if !errors.As(err, &aborted) || !strings.Contains(aborted.Diagnostics(), "Duration: 00:10:00.00") {
		t.Fatalf("expected captured diagnostics, got %v", err)
	}
	if job.State() != StateFailed {
		t.Fatalf("state = %v", job.State())
	}
}

func TestCancelledBeforeStartIsAborted(t *testing.T) {
	bin := testsupport.FFmpegStub{Output: "x"}.Install(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(bin).Run(ctx, videoTask(t), nil)
	if !errors.Is(err, services.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}
