package models

import (
	"path/filepath"
	"strings"
)

// SubtitleTrack describes one subtitle stream inside a container.
//
// Ordinal is the position among subtitle streams only (the value used after
// "0:s:" in stream specifiers); StreamIndex is the absolute index within the
// container. Tracks are derived from probing and are never persisted: the
// container itself stays authoritative.
type SubtitleTrack struct {
	Ordinal     int    `json:"ordinal"`
	StreamIndex int    `json:"stream_index"`
	Codec       string `json:"codec"`
	Language    string `json:"language"`
	Title       string `json:"title,omitempty"`
	Default     bool   `json:"default"`
	Forced      bool   `json:"forced"`
}

// SubtitleFormat constants
const (
	SubtitleFormatSRT = "srt"
	SubtitleFormatASS = "ass"
	SubtitleFormatSSA = "ssa"
	SubtitleFormatVTT = "vtt"
	SubtitleFormatSUB = "sub"
)

var subtitleExtensions = map[string]bool{
	".srt": true,
	".ass": true,
	".ssa": true,
	".vtt": true,
	".sub": true,
}

// IsSubtitleFile reports whether the filename has a recognized subtitle
// extension.
func IsSubtitleFile(filename string) bool {
	return subtitleExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SubtitleFormatFromPath returns the subtitle format implied by a filename
// extension, or "" when the extension is not a subtitle format.
func SubtitleFormatFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if !subtitleExtensions[ext] {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

// CodecForFormat maps a subtitle file format to the ffmpeg encoder used when
// a stream has to be converted into that format.
func CodecForFormat(format string) string {
	switch format {
	case SubtitleFormatSRT, SubtitleFormatSUB:
		return "subrip"
	case SubtitleFormatASS, SubtitleFormatSSA:
		return "ass"
	case SubtitleFormatVTT:
		return "webvtt"
	default:
		return ""
	}
}
