package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"vidconv/internal/language"
	"vidconv/internal/source"
)

type fileJSON struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

func newFilesCommand(ctx *commandContext) *cobra.Command {
	var dir string
	var search string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List video files that can be converted",
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := ctx.printer()
			out := cmd.OutOrStdout()

			found, err := source.Discover(dir)
			if err != nil {
				return err
			}
			matched := source.Filter(found, search)

			entries := make([]fileJSON, 0, len(matched))
			for _, path := range matched {
				entry := fileJSON{Path: path}
				if info, err := os.Stat(path); err == nil {
					entry.SizeBytes = info.Size()
				}
				entries = append(entries, entry)
			}
			if jsonOutput {
				return writeJSON(cmd, entries)
			}

			switch {
			case len(found) == 0:
				fmt.Fprintln(out, printer.Sprintf(language.MsgNoFiles, dir))
				return nil
			case len(matched) == 0:
				fmt.Fprintln(out, printer.Sprintf(language.MsgNoSearchResult, search))
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				name := source.Descriptor{Path: entry.Path}.Name()
				rows = append(rows, []string{strconv.Itoa(i + 1), name, source.FormatSize(entry.SizeBytes)})
			}
			headers := []string{"#", printer.Sprintf(language.MsgSource), printer.Sprintf(language.MsgSize)}
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignRight}))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to scan")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only list files whose name contains this text")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
