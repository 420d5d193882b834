package conversion

import (
	"time"

	"vidconv/internal/encoding"
	"vidconv/internal/source"
)

// Outcome is the terminal record of one task. Skipped tasks were never
// started because the batch was cancelled first.
type Outcome struct {
	Index   int
	Task    encoding.Task
	Result  encoding.Result
	Err     error
	Elapsed time.Duration
	Skipped bool
}

// Succeeded reports whether the task produced its output.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && !o.Skipped
}

// Report summarizes a batch. Outcomes has one entry per planned task, in
// plan order.
type Report struct {
	BatchID  string
	Source   source.Descriptor
	Outcomes []Outcome
	Elapsed  time.Duration
}

// SuccessCount returns the number of tasks that produced output.
func (r Report) SuccessCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// Successful returns the results of the tasks that produced output.
func (r Report) Successful() []encoding.Result {
	var results []encoding.Result
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			results = append(results, o.Result)
		}
	}
	return results
}

// Failed returns the outcomes of tasks that ran and failed.
func (r Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil && !o.Skipped {
			failed = append(failed, o)
		}
	}
	return failed
}

// SkippedCount returns the number of tasks never started.
func (r Report) SkippedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Skipped {
			n++
		}
	}
	return n
}

// TotalBytes sums the size of every produced output.
func (r Report) TotalBytes() int64 {
	var total int64
	for _, res := range r.Successful() {
		total += res.SizeBytes
	}
	return total
}
