package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"vidconv/internal/conversion"
	"vidconv/internal/services"
	"vidconv/internal/source"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type batchJSON struct {
	BatchID        string            `json:"batch_id"`
	Source         source.Descriptor `json:"source"`
	ElapsedSeconds float64           `json:"elapsed_seconds"`
	Outcomes       []outcomeJSON     `json:"outcomes"`
}

type outcomeJSON struct {
	Rendition      string  `json:"rendition"`
	Output         string  `json:"output"`
	Status         string  `json:"status"`
	SizeBytes      int64   `json:"size_bytes,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	FailureKind    string  `json:"failure_kind,omitempty"`
	Error          string  `json:"error,omitempty"`
}

func convertReportsJSON(reports []conversion.Report) []batchJSON {
	out := make([]batchJSON, 0, len(reports))
	for _, report := range reports {
		batch := batchJSON{
			BatchID:        report.BatchID,
			Source:         report.Source,
			ElapsedSeconds: report.Elapsed.Seconds(),
			Outcomes:       make([]outcomeJSON, 0, len(report.Outcomes)),
		}
		for _, outcome := range report.Outcomes {
			entry := outcomeJSON{
				Rendition:      outcome.Task.Rendition.Tag(),
				Output:         outcome.Task.OutputPath,
				Status:         "succeeded",
				ElapsedSeconds: outcome.Elapsed.Seconds(),
			}
			switch {
			case outcome.Skipped:
				entry.Status = "skipped"
			case outcome.Err != nil:
				entry.Status = "failed"
			default:
				entry.SizeBytes = outcome.Result.SizeBytes
			}
			if outcome.Err != nil {
				entry.FailureKind = string(services.Kind(outcome.Err))
				entry.Error = outcome.Err.Error()
			}
			batch.Outcomes = append(batch.Outcomes, entry)
		}
		out = append(out, batch)
	}
	return out
}
