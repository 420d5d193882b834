package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vidconv/internal/deps"
	"vidconv/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check media tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolve working directory: %w", err)
			}
			statuses, results := preflight.RunAll(cmd.Context(), cfg, workDir)

			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"dependencies": statuses,
					"checks":       results,
				})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var lines []string
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			depLines, missingRequired := dependencyLines(statuses, colorize)
			lines = append(lines, depLines...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			lines = append(lines,
				renderStatusLine("Log directory", statusInfo, cfg.Paths.LogDir, colorize),
				renderStatusLine("Settings file", statusInfo, cfg.Paths.SettingsFile, colorize),
				renderStatusLine("On existing output", statusInfo, cfg.Conversion.OnExists, colorize),
				renderStatusLine("Verbose logging", statusInfo, yesNo(ctx.verbose()), colorize),
			)
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			if missingRequired || len(preflight.Failed(results)) > 0 {
				return errors.New("system check failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// dependencyLines renders one status line per dependency and reports whether
// a required one is missing.
func dependencyLines(statuses []deps.Status, colorize bool) ([]string, bool) {
	lines := make([]string, 0, len(statuses))
	missingRequired := false
	for _, status := range statuses {
		kind := statusOK
		message := strings.TrimSpace(status.Version)
		if message == "" {
			message = status.Path
		}
		if !status.Available {
			message = status.Detail
			if status.Optional {
				kind = statusWarn
			} else {
				kind = statusError
				missingRequired = true
			}
		}
		lines = append(lines, renderStatusLine(status.Name, kind, message, colorize))
	}
	return lines, missingRequired
}
