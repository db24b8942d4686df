package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"subedit/internal/editor"
	"subedit/pkg/models"
)

func newProbeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "probe <video>",
		Short: "Print container metadata and stream layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := locateTool()
			if err != nil {
				return err
			}

			session := editor.NewSession(tool)
			if err := session.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			probe := session.Probe()
			switch output {
			case "json":
				return printJSON(probe)
			case "yaml":
				return printYAML(probe)
			default:
				fmt.Printf("File:     %s\n", probe.Format.Filename)
				fmt.Printf("Format:   %s\n", probe.Format.FormatName)
				fmt.Printf("Duration: %.2fs\n", probe.Duration())
				fmt.Printf("Size:     %d bytes\n", probe.SizeBytes())
				fmt.Printf("Streams:  %d (%d subtitle)\n", len(probe.Streams), len(session.Tracks()))
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json, yaml")
	return cmd
}

func newTracksCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "tracks <video>",
		Short: "List the subtitle tracks of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := locateTool()
			if err != nil {
				return err
			}

			session := editor.NewSession(tool)
			if err := session.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			tracks := session.Tracks()
			switch output {
			case "json":
				return printJSON(tracks)
			case "yaml":
				return printYAML(tracks)
			default:
				printTrackTable(tracks)
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json, yaml")
	return cmd
}

func newExtractCmd() *cobra.Command {
	var track int
	var outputPath string

	cmd := &cobra.Command{
		Use:   "extract <video>",
		Short: "Extract one subtitle track to a file",
		Long: `Extract one subtitle track to a file. The output extension decides the
format (srt, ass, ssa, vtt, sub); the stream is copied when its codec
already matches and converted otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := locateTool()
			if err != nil {
				return err
			}

			session := editor.NewSession(tool)
			if err := session.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			if err := session.Extract(cmd.Context(), track, outputPath); err != nil {
				return err
			}

			fmt.Printf("Extracted track %d to %s\n", track, outputPath)
			return nil
		},
	}

	cmd.Flags().IntVarP(&track, "track", "t", 0, "subtitle track ordinal")
	cmd.Flags().StringVarP(&outputPath, "out", "O", "", "output subtitle file")
	cmd.MarkFlagRequired("out")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		outputPath  string
		removes     []int
		setDefaults []int
		addPaths    []string
		addLangs    []string
		addTitles   []string
		addDefault  int
	)

	cmd := &cobra.Command{
		Use:   "export <video>",
		Short: "Apply subtitle edits and write a new container",
		Long: `Apply subtitle edits in a single remux and write a new container. Removals
and default flags refer to track ordinals as listed by "subedit tracks".
All operations are applied together; with none given, the container is
copied as-is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := locateTool()
			if err != nil {
				return err
			}

			session := editor.NewSession(tool)
			if err := session.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			for _, ordinal := range removes {
				if err := session.QueueRemove(ordinal); err != nil {
					return err
				}
			}
			for _, ordinal := range setDefaults {
				if err := session.QueueSetDefault(ordinal); err != nil {
					return err
				}
			}
			for i, path := range addPaths {
				lang := ""
				if i < len(addLangs) {
					lang = addLangs[i]
				}
				title := ""
				if i < len(addTitles) {
					title = addTitles[i]
				}
				if err := session.QueueAdd(path, lang, title, i == addDefault); err != nil {
					return err
				}
			}

			pending := session.Pending()
			for _, op := range pending {
				fmt.Printf("  %s\n", op.DisplayName())
			}

			if err := session.Export(cmd.Context(), outputPath); err != nil {
				return err
			}

			fmt.Printf("Exported %s (%d operations)\n", outputPath, len(pending))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "out", "O", "", "output video file")
	cmd.Flags().IntSliceVar(&removes, "remove", nil, "remove subtitle track by ordinal (repeatable)")
	cmd.Flags().IntSliceVar(&setDefaults, "set-default", nil, "flag subtitle track as default by ordinal (repeatable)")
	cmd.Flags().StringSliceVar(&addPaths, "add", nil, "add a subtitle file as a new track (repeatable)")
	cmd.Flags().StringSliceVar(&addLangs, "lang", nil, "language for each added subtitle, in --add order")
	cmd.Flags().StringSliceVar(&addTitles, "title", nil, "title for each added subtitle, in --add order")
	cmd.Flags().IntVar(&addDefault, "add-default", -1, "index into --add of the track to flag default")
	cmd.MarkFlagRequired("out")
	return cmd
}

func newAddCmd() *cobra.Command {
	var (
		outputPath string
		language   string
		title      string
		asDefault  bool
	)

	cmd := &cobra.Command{
		Use:   "add <video> <subtitle>",
		Short: "Add one subtitle file as a new track",
		Long: `Add one subtitle file as a new track and write a new container in a
single remux. The subtitle format is taken from the file extension
(srt, ass, ssa, vtt, sub).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := locateTool()
			if err != nil {
				return err
			}

			session := editor.NewSession(tool)
			if err := session.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			if err := session.QueueAdd(args[1], language, title, asDefault); err != nil {
				return err
			}
			if err := session.Export(cmd.Context(), outputPath); err != nil {
				return err
			}

			fmt.Printf("Added %s to %s\n", args[1], outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "out", "O", "", "output video file")
	cmd.Flags().StringVarP(&language, "lang", "l", "", "language tag for the new track")
	cmd.Flags().StringVar(&title, "title", "", "title for the new track")
	cmd.Flags().BoolVar(&asDefault, "default", false, "flag the new track as default")
	cmd.MarkFlagRequired("out")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	var (
		outputPath string
		track      int
	)

	cmd := &cobra.Command{
		Use:   "remove <video>",
		Short: "Remove one subtitle track",
		Long: `Remove one subtitle track and write a new container in a single remux.
The ordinal refers to the track list as printed by "subedit tracks".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := locateTool()
			if err != nil {
				return err
			}

			session := editor.NewSession(tool)
			if err := session.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			if err := session.QueueRemove(track); err != nil {
				return err
			}
			if err := session.Export(cmd.Context(), outputPath); err != nil {
				return err
			}

			fmt.Printf("Removed track %d, wrote %s\n", track, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "out", "O", "", "output video file")
	cmd.Flags().IntVarP(&track, "track", "t", 0, "subtitle track ordinal")
	cmd.MarkFlagRequired("out")
	return cmd
}

func newSetDefaultCmd() *cobra.Command {
	var (
		outputPath string
		track      int
	)

	cmd := &cobra.Command{
		Use:   "set-default <video>",
		Short: "Flag one subtitle track as default",
		Long: `Flag one subtitle track as default, clear the flag on every other
subtitle track, and write a new container in a single remux.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := locateTool()
			if err != nil {
				return err
			}

			session := editor.NewSession(tool)
			if err := session.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			if err := session.QueueSetDefault(track); err != nil {
				return err
			}
			if err := session.Export(cmd.Context(), outputPath); err != nil {
				return err
			}

			fmt.Printf("Track %d flagged default, wrote %s\n", track, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "out", "O", "", "output video file")
	cmd.Flags().IntVarP(&track, "track", "t", 0, "subtitle track ordinal")
	cmd.MarkFlagRequired("out")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print subedit and ffmpeg versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("subedit %s\n", version)

			tool, err := locateTool()
			if err != nil {
				fmt.Println("ffmpeg: not found")
				return nil
			}

			v, err := tool.Version(cmd.Context())
			if err != nil {
				fmt.Println("ffmpeg: not found")
				return nil
			}
			fmt.Println(v)
			return nil
		},
	}
}

func printTrackTable(tracks []models.SubtitleTrack) {
	if len(tracks) == 0 {
		fmt.Println("No subtitle tracks")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRACK\tCODEC\tLANG\tTITLE\tDEFAULT\tFORCED")
	for _, t := range tracks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.Ordinal, t.Codec, t.Language, t.Title, yesNo(t.Default), yesNo(t.Forced))
	}
	w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(v)
}
