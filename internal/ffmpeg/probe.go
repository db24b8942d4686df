package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"subedit/pkg/models"
)

// ProbeResult holds container metadata extracted from ffprobe
type ProbeResult struct {
	Format  FormatInfo   `json:"format"`
	Streams []StreamInfo `json:"streams"`
}

// FormatInfo holds container format information
type FormatInfo struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// StreamInfo holds stream information
type StreamInfo struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Tags        map[string]string `json:"tags"`
	Disposition map[string]int    `json:"disposition"`
}

// Probe extracts metadata from a video file
func (t *Tool) Probe(ctx context.Context, inputPath string) (*ProbeResult, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	}

	cmd := exec.CommandContext(ctx, t.ffprobePath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w, stderr: %s", err, stderr.String())
	}

	var result ProbeResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	return &result, nil
}

// SubtitleTracks returns the subtitle streams of a probe result, in container
// order, with both ordinal (position among subtitle streams) and absolute
// stream index.
func (r *ProbeResult) SubtitleTracks() []models.SubtitleTrack {
	var tracks []models.SubtitleTrack
	for _, stream := range r.Streams {
		if stream.CodecType != "subtitle" {
			continue
		}

		track := models.SubtitleTrack{
			Ordinal:     len(tracks),
			StreamIndex: stream.Index,
			Codec:       stream.CodecName,
			Language:    stream.Tags["language"],
			Title:       stream.Tags["title"],
			Default:     stream.Disposition["default"] == 1,
			Forced:      stream.Disposition["forced"] == 1,
		}
		if track.Language == "" {
			track.Language = "und"
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// Duration returns the container duration in seconds
func (r *ProbeResult) Duration() float64 {
	d, _ := strconv.ParseFloat(r.Format.Duration, 64)
	return d
}

// SizeBytes returns the container size in bytes
func (r *ProbeResult) SizeBytes() int64 {
	s, _ := strconv.ParseInt(r.Format.Size, 10, 64)
	return s
}
