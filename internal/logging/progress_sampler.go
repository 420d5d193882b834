package logging

import (
	"math"
	"strings"
)

// ProgressSampler thins encode progress logging to one line per percent
// bucket, starting over whenever the rendition changes.
type ProgressSampler struct {
	step       float64
	rendition  string
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// a step boundary (default 5%) or when the rendition changes.
func NewProgressSampler(step float64) *ProgressSampler {
	if step <= 0 {
		step = 5
	}
	return &ProgressSampler{step: step, lastBucket: -1}
}

// ShouldLog reports whether a progress sample should be logged. A negative or
// NaN percent means "indeterminate" and only logs on a rendition change.
func (s *ProgressSampler) ShouldLog(rendition string, percent float64) bool {
	if s == nil {
		return true
	}
	rendition = strings.TrimSpace(rendition)
	emit := false
	if rendition != "" && rendition != s.rendition {
		s.rendition = rendition
		s.lastBucket = -1
		emit = true
	}
	if percent < 0 || math.IsNaN(percent) {
		return emit
	}
	bucket := int(math.Min(percent, 100) / s.step)
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		emit = true
	}
	return emit
}

// Reset clears the sampler state.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.rendition = ""
	s.lastBucket = -1
}
