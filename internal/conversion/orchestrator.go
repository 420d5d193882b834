package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidconv/internal/encoding"
	"vidconv/internal/logging"
	"vidconv/internal/rendition"
	"vidconv/internal/services"
	"vidconv/internal/settings"
	"vidconv/internal/source"
)

// EventKind identifies a batch event.
type EventKind int

const (
	// EventStarted precedes any progress for a task.
	EventStarted EventKind = iota + 1
	// EventProgress carries one encoder progress sample.
	EventProgress
	// EventFinished closes a task that ran, successfully or not.
	EventFinished
	// EventSkipped reports a task that was never started.
	EventSkipped
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventProgress:
		return "progress"
	case EventFinished:
		return "finished"
	case EventSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is delivered to a Sink. Sample is set for EventProgress; Outcome is
// set for EventFinished and EventSkipped.
type Event struct {
	Kind      EventKind
	BatchID   string
	Index     int
	Total     int
	Rendition rendition.Rendition
	Task      encoding.Task
	Sample    encoding.Sample
	Outcome   Outcome
}

// Sink receives batch events on the orchestrator's goroutine.
type Sink func(Event)

// Encoder runs a single task. *encoding.Runner implements it.
type Encoder interface {
	Run(ctx context.Context, task encoding.Task, onSample func(encoding.Sample)) (encoding.Result, error)
}

// Orchestrator runs conversion batches sequentially.
type Orchestrator struct {
	encoder      Encoder
	settings     settings.Provider
	policy       CollisionPolicy
	exists       ExistsFunc
	logger       *slog.Logger
	progressStep float64
	newBatchID   func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSettings sets the provider snapshotted at the start of every batch.
func WithSettings(provider settings.Provider) Option {
	return func(o *Orchestrator) {
		if provider != nil {
			o.settings = provider
		}
	}
}

// WithCollisionPolicy sets how existing outputs are handled.
func WithCollisionPolicy(policy CollisionPolicy) Option {
	return func(o *Orchestrator) {
		o.policy = policy
	}
}

// WithExistsFunc replaces the filesystem existence check used when planning.
func WithExistsFunc(fn ExistsFunc) Option {
	return func(o *Orchestrator) {
		o.exists = fn
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithProgressLogStep sets the percent bucket for progress log lines.
func WithProgressLogStep(step float64) Option {
	return func(o *Orchestrator) {
		o.progressStep = step
	}
}

// New returns an Orchestrator that encodes with encoder. Without WithSettings
// it uses settings.Defaults.
func New(encoder Encoder, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		encoder:      encoder,
		settings:     settings.Static(settings.Defaults()),
		policy:       PolicyFail,
		exists:       FileExists,
		progressStep: 10,
		newBatchID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	o.logger = logging.NewComponentLogger(o.logger, "conversion")
	return o
}

// Plan snapshots the settings once and resolves selections into tasks using
// the orchestrator's collision policy.
func (o *Orchestrator) Plan(src source.Descriptor, selections []Selection) ([]encoding.Task, error) {
	return Plan(src, selections, o.settings.Snapshot(), o.policy, o.exists)
}

// Convert plans the batch and runs it. A planning error means nothing was
// started.
func (o *Orchestrator) Convert(ctx context.Context, src source.Descriptor, selections []Selection, sink Sink) (Report, error) {
	tasks, err := o.Plan(src, selections)
	if err != nil {
		return Report{Source: src}, err
	}
	return o.Run(ctx, src, tasks, sink), nil
}

// Run executes tasks in order. Task n+1 starts only after task n has reached
// a terminal state. Failures are recorded and the batch continues; once ctx
// is cancelled the active encode is killed and the rest are skipped. The
// report always has one outcome per task.
func (o *Orchestrator) Run(ctx context.Context, src source.Descriptor, tasks []encoding.Task, sink Sink) Report {
	if sink == nil {
		sink = func(Event) {}
	}
	batchID := o.newBatchID()
	ctx = services.WithBatchID(ctx, batchID)
	ctx = services.WithSource(ctx, src.Name())
	logger := logging.WithContext(ctx, o.logger)

	tags := make([]string, len(tasks))
	for i, task := range tasks {
		tags[i] = task.Rendition.Tag()
	}
	logger.Info("conversion batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.Int("task_count", len(tasks)),
		logging.String("renditions", strings.Join(tags, ", ")),
		logging.String("source_path", src.Path),
	)

	started := time.Now()
	outcomes := make([]Outcome, len(tasks))
	for i, task := range tasks {
		base := Event{BatchID: batchID, Index: i, Total: len(tasks), Rendition: task.Rendition, Task: task}

		if err := ctx.Err(); err != nil {
			outcomes[i] = Outcome{
				Index:   i,
				Task:    task,
				Skipped: true,
				Err:     services.Wrap(services.ErrAborted, "conversion", "skip task", task.Rendition.Tag(), context.Cause(ctx)),
			}
			ev := base
			ev.Kind = EventSkipped
			ev.Outcome = outcomes[i]
			sink(ev)
			continue
		}

		outcomes[i] = o.runTask(ctx, task, i, base, sink)
	}

	report := Report{BatchID: batchID, Source: src, Outcomes: outcomes, Elapsed: time.Since(started)}
	logger.Info("conversion batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("succeeded", report.SuccessCount()),
		logging.Int("failed", len(report.Failed())),
		logging.Int("skipped", report.SkippedCount()),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report
}

func (o *Orchestrator) runTask(ctx context.Context, task encoding.Task, index int, base Event, sink Sink) Outcome {
	tag := task.Rendition.Tag()
	sampler := logging.NewProgressSampler(o.progressStep)
	taskCtx := services.WithRendition(ctx, tag)
	logger := logging.WithContext(taskCtx, o.logger)

	ev := base
	ev.Kind = EventStarted
	sink(ev)

	started := time.Now()
	result, err := o.encoder.Run(taskCtx, task, func(sample encoding.Sample) {
		if sampler.ShouldLog(tag, sample.Percent) {
			logger.Info("encode progress",
				logging.String(logging.FieldEventType, "encode_progress"),
				logging.Float64(logging.FieldProgressPercent, sample.Percent),
			)
		}
		ev := base
		ev.Kind = EventProgress
		ev.Sample = sample
		sink(ev)
	})
	outcome := Outcome{Index: index, Task: task, Result: result, Err: err, Elapsed: time.Since(started)}

	if err != nil {
		logging.ErrorWithContext(logger, "encode failed", "encode_failed",
			logging.String("failure_kind", string(services.Kind(err))),
			logging.String("output_path", task.OutputPath),
			logging.Duration("elapsed", outcome.Elapsed),
			logging.String("diagnostics", services.Diagnostics(err)),
			logging.String(logging.FieldErrorHint, errorHint(err)),
			logging.Error(err),
		)
	} else {
		logger.Info("encode complete",
			logging.String(logging.FieldEventType, "encode_complete"),
			logging.String("output", result.OutputPath),
			logging.Int64("output_bytes", result.SizeBytes),
			logging.Duration("elapsed", outcome.Elapsed),
		)
	}

	ev = base
	ev.Kind = EventFinished
	ev.Outcome = outcome
	sink(ev)
	return outcome
}

func errorHint(err error) string {
	switch services.Kind(err) {
	case services.KindEncodeSpawn:
		return "install ffmpeg or set tools.ffmpeg in the config file"
	case services.KindAborted:
		return "conversion was cancelled; rerun to finish the remaining renditions"
	case services.KindEncode:
		return "read the ffmpeg diagnostics for the cause"
	default:
		return "check logs for details"
	}
}
