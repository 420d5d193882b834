package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vidconv/internal/language"
	"vidconv/internal/settings"
)

type settingsJSON struct {
	Path             string         `json:"path"`
	Language         string         `json:"language"`
	AudioBitrateKbps int            `json:"audio_bitrate_kbps"`
	VideoBitrateKbps map[string]int `json:"video_bitrate_kbps"`
}

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change encode settings",
	}

	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsPathCommand(ctx))
	settingsCmd.AddCommand(newSettingsResetCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetVideoCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetAudioCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetLanguageCommand(ctx))

	return settingsCmd
}

func openStore(ctx *commandContext) (*settings.Store, error) {
	store, err := ctx.settingsStore()
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	return store, nil
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current encode settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			prefs := store.Preferences()
			if jsonOutput {
				payload := settingsJSON{
					Path:             store.Path(),
					Language:         prefs.Language,
					AudioBitrateKbps: prefs.Encode.AudioBitrateKbps,
					VideoBitrateKbps: make(map[string]int, len(prefs.Encode.VideoBitrateKbps)),
				}
				for tier, kbps := range prefs.Encode.VideoBitrateKbps {
					payload.VideoBitrateKbps[string(tier)] = kbps
				}
				return writeJSON(cmd, payload)
			}

			lang := "auto (" + language.DisplayName(language.Detect()) + ")"
			if prefs.Language != "" {
				lang = language.DisplayName(prefs.Language)
			}
			pairs := make([][2]string, 0, len(settings.Tiers())+2)
			for _, tier := range settings.Tiers() {
				value := "-"
				if kbps, ok := prefs.Encode.VideoBitrate(tier); ok {
					value = fmt.Sprintf("%d Kbps", kbps)
				}
				pairs = append(pairs, [2]string{"Video " + string(tier), value})
			}
			pairs = append(pairs,
				[2]string{"Audio (MP3)", fmt.Sprintf("%d Kbps", prefs.Encode.AudioBitrateKbps)},
				[2]string{"Language", lang},
			)
			fmt.Fprintln(cmd.OutOrStdout(), renderPropertyTable("Setting", "Value", pairs, alignRight))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSettingsPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Paths.SettingsFile)
			return nil
		},
	}
}

func newSettingsResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default encode settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			if err := store.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ctx.printer().Sprintf(language.MsgSettingsSaved))
			return nil
		},
	}
}

func newSettingsSetVideoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-video <tier> <kbps>",
		Short: "Set the video bitrate for a tier (2160p, 1080p, 720p, 480p)",
		Long: fmt.Sprintf("Set the video bitrate for a tier. Values are rounded to the nearest 100 Kbps and kept between %d and %d Kbps.",
			settings.MinVideoBitrateKbps, settings.MaxVideoBitrateKbps),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := settings.ParseTier(args[0])
			if err != nil {
				return err
			}
			kbps, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid bitrate %q: %w", args[1], err)
			}
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			stored, err := store.SetVideoBitrate(tier, kbps)
			if err != nil {
				return err
			}
			printer := ctx.printer()
			out := cmd.OutOrStdout()
			if stored != kbps {
				fmt.Fprintln(out, printer.Sprintf(language.MsgVideoClamped, kbps, stored))
			}
			fmt.Fprintln(out, printer.Sprintf(language.MsgSettingsSaved))
			return nil
		},
	}
}

func newSettingsSetAudioCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-audio <kbps>",
		Short: fmt.Sprintf("Set the MP3 bitrate (one of %v)", settings.AudioBitrates()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kbps, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid bitrate %q: %w", args[0], err)
			}
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			if err := store.SetAudioBitrate(kbps); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ctx.printer().Sprintf(language.MsgSettingsSaved))
			return nil
		},
	}
}

func newSettingsSetLanguageCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-language <code|auto>",
		Short: "Set the UI language (en, ru, or auto to follow the locale)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			code, err := store.SetLanguage(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), language.Printer(language.Resolve(code)).Sprintf(language.MsgSettingsSaved))
			return nil
		},
	}
}
