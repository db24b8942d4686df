package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"subedit/internal/ffmpeg"
)

var version = "dev"

var (
	flagFFmpeg  string
	flagFFprobe string
)

func main() {
	root := &cobra.Command{
		Use:   "subedit",
		Short: "Edit subtitle tracks in video containers without re-encoding",
		Long: `subedit inspects, extracts, adds, and removes subtitle tracks in video
containers (MP4, MKV, AVI, MOV, WMV, FLV, WebM, M4V) by remuxing with
ffmpeg. Streams are copied, never re-encoded.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFFmpeg, "ffmpeg", "ffmpeg", "path to the ffmpeg binary")
	root.PersistentFlags().StringVar(&flagFFprobe, "ffprobe", "ffprobe", "path to the ffprobe binary")

	root.AddCommand(
		newProbeCmd(),
		newTracksCmd(),
		newExtractCmd(),
		newAddCmd(),
		newRemoveCmd(),
		newSetDefaultCmd(),
		newExportCmd(),
		newEditCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// locateTool resolves the ffmpeg binaries, failing the command when neither
// the configured paths nor PATH has them.
func locateTool() (*ffmpeg.Tool, error) {
	return ffmpeg.Locate(flagFFmpeg, flagFFprobe)
}
