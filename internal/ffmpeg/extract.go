package ffmpeg

import (
	"context"
	"fmt"

	"subedit/pkg/models"
)

// ExtractOptions holds options for extracting one subtitle track
type ExtractOptions struct {
	InputPath   string
	Track       int    // ordinal subtitle index
	SourceCodec string // codec of the source stream, "" if unknown
	OutputPath  string // extension decides the target format
}

// ExtractSubtitle extracts a single subtitle track to a file. The stream is
// copied when its codec already matches the target format, converted
// otherwise.
func (t *Tool) ExtractSubtitle(ctx context.Context, opts ExtractOptions) error {
	format := models.SubtitleFormatFromPath(opts.OutputPath)
	if format == "" {
		return fmt.Errorf("unrecognized subtitle format for output %q", opts.OutputPath)
	}
	if opts.Track < 0 {
		return fmt.Errorf("invalid track ordinal %d", opts.Track)
	}

	args, err := BuildExtractArgs(opts)
	if err != nil {
		return err
	}

	return t.runFFmpeg(ctx, args)
}

// BuildExtractArgs builds the ffmpeg argument list for an extraction
func BuildExtractArgs(opts ExtractOptions) ([]string, error) {
	format := models.SubtitleFormatFromPath(opts.OutputPath)
	if format == "" {
		return nil, fmt.Errorf("unrecognized subtitle format for output %q", opts.OutputPath)
	}

	args := []string{
		"-i", opts.InputPath,
		"-map", fmt.Sprintf("0:s:%d", opts.Track),
	}

	if codecMatchesFormat(opts.SourceCodec, format) {
		args = append(args, "-c:s", "copy")
	} else {
		codec := models.CodecForFormat(format)
		if codec == "" {
			return nil, fmt.Errorf("no encoder for subtitle format %q", format)
		}
		args = append(args, "-c:s", codec)
	}

	args = append(args, "-y", opts.OutputPath)
	return args, nil
}

// ConvertSubtitle converts a subtitle file from one format to another
func (t *Tool) ConvertSubtitle(ctx context.Context, inputPath, outputPath string) error {
	format := models.SubtitleFormatFromPath(outputPath)
	if format == "" {
		return fmt.Errorf("unrecognized subtitle format for output %q", outputPath)
	}

	codec := models.CodecForFormat(format)
	if codec == "" {
		return fmt.Errorf("no encoder for subtitle format %q", format)
	}

	args := []string{
		"-i", inputPath,
		"-c:s", codec,
		"-y", outputPath,
	}

	return t.runFFmpeg(ctx, args)
}

// codecMatchesFormat reports whether a stream codec can be copied directly
// into a file of the given format.
func codecMatchesFormat(codec, format string) bool {
	switch format {
	case models.SubtitleFormatSRT:
		return codec == "subrip" || codec == "srt"
	case models.SubtitleFormatASS, models.SubtitleFormatSSA:
		return codec == "ass" || codec == "ssa"
	case models.SubtitleFormatVTT:
		return codec == "webvtt"
	default:
		return false
	}
}
