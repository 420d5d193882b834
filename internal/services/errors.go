package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProbeFailed   = errors.New("probe failed")
	ErrProbeParse    = errors.New("probe output unparseable")
	ErrEncoderSpawn  = errors.New("encoder spawn failed")
	ErrEncodeFailed  = errors.New("encode failed")
	ErrAborted       = errors.New("encode aborted")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// FailureKind names a failure class for summaries and JSON output.
type FailureKind string

const (
	KindNone          FailureKind = ""
	KindProbe         FailureKind = "probe_failure"
	KindProbeParse    FailureKind = "probe_parse_failure"
	KindEncodeSpawn   FailureKind = "encode_spawn_failure"
	KindEncode        FailureKind = "encode_failure"
	KindAborted       FailureKind = "encode_aborted"
	KindValidation    FailureKind = "validation"
	KindConfiguration FailureKind = "configuration"
	KindUnknown       FailureKind = "unknown"
)

// Diagnoser is implemented by errors that carry captured tool output.
type Diagnoser interface {
	Diagnostics() string
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrEncodeFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to its failure class.
func Kind(err error) FailureKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrProbeFailed):
		return KindProbe
	case errors.Is(err, ErrProbeParse):
		return KindProbeParse
	case errors.Is(err, ErrEncoderSpawn):
		return KindEncodeSpawn
	case errors.Is(err, ErrAborted):
		return KindAborted
	case errors.Is(err, ErrEncodeFailed):
		return KindEncode
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	default:
		return KindUnknown
	}
}

// Diagnostics returns the tool output carried anywhere in the error chain.
func Diagnostics(err error) string {
	var d Diagnoser
	if errors.As(err, &d) {
		return d.Diagnostics()
	}
	return ""
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "conversion failure"
	}
	return strings.Join(parts, ": ")
}
