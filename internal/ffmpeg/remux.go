package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"subedit/pkg/models"
)

// SubtitleInput describes an external subtitle file muxed in as a new stream
type SubtitleInput struct {
	Path     string
	Language string
	Title    string
}

// RemuxSpec describes a single remux pass over a container: streams to drop,
// subtitle files to add, and the default disposition to apply. All kept
// streams are stream-copied; media payloads are never re-encoded.
type RemuxSpec struct {
	InputPath string

	// Streams is the probed stream layout of the input, in container order.
	Streams []StreamInfo

	// RemoveStreams holds absolute stream indexes to drop.
	RemoveStreams map[int]bool

	// Adds are appended as new subtitle streams, after the kept ones.
	Adds []SubtitleInput

	// DefaultOrdinal is the output subtitle ordinal to flag as default;
	// all other subtitle streams get their default disposition cleared.
	// -1 leaves dispositions untouched.
	DefaultOrdinal int

	OutputPath string
}

// Remux executes a remux spec
func (t *Tool) Remux(ctx context.Context, spec RemuxSpec) error {
	args, err := spec.Args()
	if err != nil {
		return err
	}

	return t.runFFmpeg(ctx, args)
}

// Args builds the complete ffmpeg argument list for the spec
func (s *RemuxSpec) Args() ([]string, error) {
	if s.InputPath == "" {
		return nil, fmt.Errorf("remux: input path required")
	}
	if s.OutputPath == "" {
		return nil, fmt.Errorf("remux: output path required")
	}
	if !models.IsContainerFile(s.OutputPath) {
		return nil, fmt.Errorf("remux: output %q is not a recognized container", s.OutputPath)
	}

	for idx := range s.RemoveStreams {
		if !s.isSubtitleStream(idx) {
			return nil, fmt.Errorf("remux: stream %d is not a subtitle stream", idx)
		}
	}

	args := []string{"-i", s.InputPath}
	for _, add := range s.Adds {
		args = append(args, "-i", add.Path)
	}

	// Map every kept stream of the main input, preserving container order.
	keptSubtitles := 0
	for _, stream := range s.Streams {
		if s.RemoveStreams[stream.Index] {
			continue
		}
		args = append(args, "-map", fmt.Sprintf("0:%d", stream.Index))
		if stream.CodecType == "subtitle" {
			keptSubtitles++
		}
	}

	// Added subtitle files follow the kept streams.
	for i := range s.Adds {
		args = append(args, "-map", fmt.Sprintf("%d:0", i+1))
	}

	args = append(args, "-c", "copy")

	// mp4-family containers cannot carry text subtitle codecs verbatim.
	addCodec := subtitleCodecForContainer(s.OutputPath)
	for i, add := range s.Adds {
		ordinal := keptSubtitles + i

		if addCodec != "copy" {
			args = append(args, fmt.Sprintf("-c:s:%d", ordinal), addCodec)
		}

		language := add.Language
		if language == "" {
			language = "und"
		}
		args = append(args, fmt.Sprintf("-metadata:s:s:%d", ordinal), "language="+language)
		if add.Title != "" {
			args = append(args, fmt.Sprintf("-metadata:s:s:%d", ordinal), "title="+add.Title)
		}
	}

	totalSubtitles := keptSubtitles + len(s.Adds)
	if s.DefaultOrdinal >= 0 {
		if s.DefaultOrdinal >= totalSubtitles {
			return nil, fmt.Errorf("remux: default ordinal %d out of range (have %d subtitle streams)", s.DefaultOrdinal, totalSubtitles)
		}
		for i := 0; i < totalSubtitles; i++ {
			if i == s.DefaultOrdinal {
				args = append(args, fmt.Sprintf("-disposition:s:%d", i), "default")
			} else {
				args = append(args, fmt.Sprintf("-disposition:s:%d", i), "0")
			}
		}
	}

	args = append(args, "-y", s.OutputPath)
	return args, nil
}

func (s *RemuxSpec) isSubtitleStream(index int) bool {
	for _, stream := range s.Streams {
		if stream.Index == index {
			return stream.CodecType == "subtitle"
		}
	}
	return false
}

// subtitleCodecForContainer returns the encoder for subtitle streams added to
// the given output container, or "copy" when the container takes text
// subtitle codecs as-is.
func subtitleCodecForContainer(outputPath string) string {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".mp4", ".mov", ".m4v":
		return "mov_text"
	default:
		return "copy"
	}
}
