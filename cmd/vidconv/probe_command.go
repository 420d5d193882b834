package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidconv/internal/deps"
	"vidconv/internal/language"
	"vidconv/internal/rendition"
	"vidconv/internal/source"
)

type probeJSON struct {
	source.Descriptor
	Available []rendition.Rendition `json:"available"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Show a video's properties and the renditions it offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			src, err := source.Probe(cmd.Context(), args[0],
				source.WithBinary(deps.ResolveFFprobe(cfg)),
				source.WithLogger(ctx.loggerValue()),
			)
			if err != nil {
				return err
			}
			available := rendition.Available(src)
			if jsonOutput {
				return writeJSON(cmd, probeJSON{Descriptor: src, Available: available})
			}

			printer := ctx.printer()
			out := cmd.OutOrStdout()
			resolution := "-"
			if src.HasVideo() {
				resolution = fmt.Sprintf("%dx%d", src.Width, src.Height)
			}
			bitrate := "-"
			if src.BitrateBps > 0 {
				bitrate = fmt.Sprintf("%d kb/s", src.BitrateBps/1000)
			}
			pairs := [][2]string{
				{"File", src.Name()},
				{"Size", source.FormatSize(src.SizeBytes)},
				{"Resolution", resolution},
				{"Duration", source.FormatDuration(src.DurationSeconds)},
				{"Bitrate", bitrate},
			}
			fmt.Fprintln(out, renderPropertyTable("Property", "Value", pairs, alignLeft))

			tags := make([]string, len(available))
			for i, r := range available {
				tags[i] = r.Tag()
			}
			fmt.Fprintf(out, "%s: %s\n", printer.Sprintf(language.MsgOffered), strings.Join(tags, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
