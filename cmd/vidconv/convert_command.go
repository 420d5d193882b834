package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"vidconv/internal/conversion"
	"vidconv/internal/deps"
	"vidconv/internal/encoding"
	"vidconv/internal/language"
	"vidconv/internal/preflight"
	"vidconv/internal/rendition"
	"vidconv/internal/services"
	"vidconv/internal/source"
)

type convertOptions struct {
	renditions []string
	all        bool
	names      []string
	onExists   string
	dir        string
	search     string
	jsonOutput bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Convert videos into the selected renditions",
		Long: `Convert each input into the selected renditions, one encode at a time.

Without file arguments the videos in --dir (default: the current directory)
are converted, optionally narrowed with --search. Renditions taller than the
source are not offered; audio extraction always is.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, opts, args)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.renditions, "rendition", "r", nil, "Renditions to produce: 1080p, 720p, 480p, audio (repeatable or comma-separated)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Produce every rendition the source offers")
	cmd.Flags().StringArrayVar(&opts.names, "name", nil, "Custom output name for a rendition as tag=path (single input only)")
	cmd.Flags().StringVar(&opts.onExists, "on-exists", "", "Existing output handling: fail, overwrite, or suffix (default from config)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Directory to scan when no files are given")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Only convert files whose name contains this text")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Write the batch reports as JSON")
	return cmd
}

func runConvert(cmd *cobra.Command, ctx *commandContext, opts convertOptions, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	printer := ctx.printer()
	logger := ctx.loggerValue()

	if len(opts.renditions) == 0 && !opts.all {
		return errors.New("select renditions with --rendition or --all")
	}
	requested, err := parseRenditions(opts.renditions)
	if err != nil {
		return err
	}
	names, err := parseOutputNames(opts.names)
	if err != nil {
		return err
	}

	policyValue := cfg.Conversion.OnExists
	if strings.TrimSpace(opts.onExists) != "" {
		policyValue = opts.onExists
	}
	policy, err := conversion.ParseCollisionPolicy(policyValue)
	if err != nil {
		return err
	}

	inputs, err := resolveInputs(cmd, printer, args, opts.dir, opts.search)
	if err != nil || len(inputs) == 0 {
		return err
	}
	if len(names) > 0 && len(inputs) > 1 {
		return errors.New("--name can only be used with a single input file")
	}

	store, err := ctx.settingsStore()
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	progressOut := out
	if opts.jsonOutput {
		progressOut = cmd.ErrOrStderr()
	}
	view := newProgressView(progressOut, printer, isTerminal(progressOut))

	runner := encoding.NewRunner(deps.ResolveFFmpeg(cfg), encoding.WithLogger(logger))
	orch := conversion.New(runner,
		conversion.WithSettings(store),
		conversion.WithCollisionPolicy(policy),
		conversion.WithLogger(logger),
		conversion.WithProgressLogStep(cfg.Conversion.ProgressLogStep),
	)
	ffprobe := deps.ResolveFFprobe(cfg)

	started := time.Now()
	var reports []conversion.Report
	var problems []error
	for _, input := range inputs {
		if runCtx.Err() != nil {
			break
		}
		src, err := source.Probe(runCtx, input, source.WithBinary(ffprobe), source.WithLogger(logger))
		if err != nil {
			problems = append(problems, err)
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			continue
		}
		selections, err := buildSelections(src, requested, opts.all, names)
		if err != nil {
			problems = append(problems, err)
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			continue
		}
		tasks, err := orch.Plan(src, selections)
		if err != nil {
			problems = append(problems, err)
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			continue
		}
		if err := checkOutputs(tasks); err != nil {
			problems = append(problems, err)
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			continue
		}
		reports = append(reports, orch.Run(runCtx, src, tasks, view.handle))
	}
	elapsed := time.Since(started)

	if opts.jsonOutput {
		if err := writeJSON(cmd, convertReportsJSON(reports)); err != nil {
			return err
		}
	} else if len(reports) > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, renderConvertSummary(printer, reports))
		succeeded, total := countOutcomes(reports)
		fmt.Fprintln(out, printer.Sprintf(language.MsgTotal, succeeded, total, source.FormatDuration(elapsed.Seconds())))
		writeFailureDiagnostics(cmd.ErrOrStderr(), reports)
	}

	if errors.Is(runCtx.Err(), context.Canceled) {
		fmt.Fprintln(cmd.ErrOrStderr(), printer.Sprintf(language.MsgCancelled))
		return context.Canceled
	}
	succeeded, total := countOutcomes(reports)
	if failed := total - succeeded; failed > 0 {
		return fmt.Errorf("%d of %d rendition(s) failed", failed, total)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d input(s) could not be converted", len(problems))
	}
	return nil
}

func parseRenditions(values []string) ([]rendition.Rendition, error) {
	var out []rendition.Rendition
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		r, err := rendition.Parse(value)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func parseOutputNames(values []string) (map[rendition.Rendition]string, error) {
	names := make(map[rendition.Rendition]string, len(values))
	for _, value := range values {
		tag, name, ok := strings.Cut(value, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --name %q (want tag=path)", value)
		}
		r, err := rendition.Parse(tag)
		if err != nil {
			return nil, err
		}
		names[r] = strings.TrimSpace(name)
	}
	return names, nil
}

// buildSelections orders the requested renditions the way they are offered.
// With all set, every offered rendition is selected.
func buildSelections(src source.Descriptor, requested []rendition.Rendition, all bool, names map[rendition.Rendition]string) ([]conversion.Selection, error) {
	offered := rendition.Available(src)
	var chosen []rendition.Rendition
	if all {
		chosen = offered
	} else {
		for _, r := range rendition.All() {
			if !slices.Contains(requested, r) {
				continue
			}
			if !rendition.Offered(src, r) {
				return nil, services.Wrap(services.ErrValidation, "convert", "select renditions",
					fmt.Sprintf("%s is not available for %s (%dx%d); available: %s", r.Tag(), src.Name(), src.Width, src.Height, joinTags(offered)), nil)
			}
			chosen = append(chosen, r)
		}
	}
	for r := range names {
		if !slices.Contains(chosen, r) {
			return nil, fmt.Errorf("--name given for %s but it is not selected", r.Tag())
		}
	}
	selections := make([]conversion.Selection, 0, len(chosen))
	for _, r := range chosen {
		selections = append(selections, conversion.Selection{Rendition: r, OutputName: names[r]})
	}
	return selections, nil
}

func checkOutputs(tasks []encoding.Task) error {
	paths := make([]string, len(tasks))
	for i, task := range tasks {
		paths[i] = task.OutputPath
	}
	failed := preflight.Failed(preflight.ForBatch(paths))
	if len(failed) == 0 {
		return nil
	}
	details := make([]string, 0, len(failed))
	for _, r := range failed {
		details = append(details, r.Name+": "+r.Detail)
	}
	return services.Wrap(services.ErrValidation, "convert", "preflight", strings.Join(details, "; "), nil)
}

// resolveInputs returns explicit arguments as given, or the filtered videos
// in dir. An empty result has already been reported to the user.
func resolveInputs(cmd *cobra.Command, printer *message.Printer, args []string, dir, search string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	found, err := source.Discover(dir)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), printer.Sprintf(language.MsgNoFiles, dir))
		return nil, nil
	}
	filtered := source.Filter(found, search)
	if len(filtered) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), printer.Sprintf(language.MsgNoSearchResult, search))
		return nil, nil
	}
	return filtered, nil
}

func renderConvertSummary(printer *message.Printer, reports []conversion.Report) string {
	headers := []string{
		printer.Sprintf(language.MsgSource),
		printer.Sprintf(language.MsgRendition),
		printer.Sprintf(language.MsgStatus),
		printer.Sprintf(language.MsgOutput),
		printer.Sprintf(language.MsgSize),
		printer.Sprintf(language.MsgTime),
	}
	var rows [][]string
	for _, report := range reports {
		for _, outcome := range report.Outcomes {
			status := printer.Sprintf(language.MsgStatusOK)
			size := source.FormatSize(outcome.Result.SizeBytes)
			switch {
			case outcome.Skipped:
				status = printer.Sprintf(language.MsgStatusSkipped)
				size = "-"
			case outcome.Err != nil:
				status = printer.Sprintf(language.MsgStatusFailed)
				size = "-"
			}
			rows = append(rows, []string{
				report.Source.Name(),
				outcome.Task.Rendition.Tag(),
				status,
				outcome.Task.OutputPath,
				size,
				source.FormatDuration(outcome.Elapsed.Seconds()),
			})
		}
	}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight}) + "\n"
}

// maxDiagnosticLines bounds the encoder output echoed for each failure.
const maxDiagnosticLines = 15

func writeFailureDiagnostics(w io.Writer, reports []conversion.Report) {
	for _, report := range reports {
		for _, outcome := range report.Failed() {
			diag := strings.TrimSpace(services.Diagnostics(outcome.Err))
			if diag == "" || services.Kind(outcome.Err) == services.KindAborted {
				continue
			}
			lines := strings.Split(diag, "\n")
			if len(lines) > maxDiagnosticLines {
				lines = lines[len(lines)-maxDiagnosticLines:]
			}
			fmt.Fprintf(w, "\nffmpeg output for %s (%s):\n", report.Source.Name(), outcome.Task.Rendition.Tag())
			for _, line := range lines {
				fmt.Fprintln(w, "  "+line)
			}
		}
	}
}

func countOutcomes(reports []conversion.Report) (succeeded, total int) {
	for _, report := range reports {
		succeeded += report.SuccessCount()
		total += len(report.Outcomes)
	}
	return succeeded, total
}

func joinTags(list []rendition.Rendition) string {
	tags := make([]string, len(list))
	for i, r := range list {
		tags[i] = r.Tag()
	}
	return strings.Join(tags, ", ")
}
