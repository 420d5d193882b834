package preflight

import (
	"context"
	"path/filepath"
	"slices"

	"vidconv/internal/config"
	"vidconv/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// MinFreeBytes is the free space an output directory needs before a batch
// starts.
const MinFreeBytes = 512 * 1024 * 1024

// ForBatch checks every distinct directory that will receive output.
func ForBatch(outputPaths []string) []Result {
	var dirs []string
	for _, p := range outputPaths {
		dir := filepath.Dir(p)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	results := make([]Result, 0, 2*len(dirs))
	for _, dir := range dirs {
		access := CheckDirectoryAccess("Output directory", dir)
		results = append(results, access)
		if access.Passed {
			results = append(results, CheckFreeSpace("Free space", dir, MinFreeBytes))
		}
	}
	return results
}

// RunAll executes the checks reported by "vidconv status": media binaries,
// the working directory, and the log directory.
func RunAll(ctx context.Context, cfg *config.Config, workDir string) ([]deps.Status, []Result) {
	if cfg == nil {
		return nil, nil
	}
	statuses := CheckSystemDeps(ctx, cfg)
	results := []Result{CheckDirectoryAccess("Working directory", workDir)}
	if results[0].Passed {
		results = append(results, CheckFreeSpace("Free space", workDir, MinFreeBytes))
	}
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	return statuses, results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
