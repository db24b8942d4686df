package editor

import (
	"fmt"

	"subedit/internal/ffmpeg"
	"subedit/pkg/models"
)

// Plan resolves an ordered operation list against the probed stream layout
// into a single remux spec.
//
// Track ordinals in remove and set_default operations refer to the track list
// of the loaded video, not to intermediate layouts: the queue is presented to
// the user against that list and applied in one pass. Added tracks are
// appended after the kept ones and can only become default through the add
// operation itself.
func Plan(probe *ffmpeg.ProbeResult, ops []models.Operation, inputPath, outputPath string) (*ffmpeg.RemuxSpec, error) {
	if probe == nil {
		return nil, fmt.Errorf("plan: no probe data")
	}

	tracks := probe.SubtitleTracks()
	removed := make(map[int]bool)
	var adds []ffmpeg.SubtitleInput

	defaultTrack := -1 // ordinal in the original track list
	defaultAdd := -1   // index into adds

	for _, op := range ops {
		switch op.Kind {
		case models.OpRemove:
			if op.Track < 0 || op.Track >= len(tracks) {
				return nil, fmt.Errorf("plan: remove: %w: %d (have %d)", ErrTrackOutOfRange, op.Track, len(tracks))
			}
			if removed[op.Track] {
				return nil, fmt.Errorf("plan: track %d removed twice", op.Track)
			}
			if defaultTrack == op.Track {
				return nil, fmt.Errorf("plan: track %d is queued as default but removed by a later operation", op.Track)
			}
			removed[op.Track] = true

		case models.OpSetDefault:
			if op.Track < 0 || op.Track >= len(tracks) {
				return nil, fmt.Errorf("plan: set default: %w: %d (have %d)", ErrTrackOutOfRange, op.Track, len(tracks))
			}
			if removed[op.Track] {
				return nil, fmt.Errorf("plan: track %d is removed by an earlier operation and cannot be default", op.Track)
			}
			defaultTrack = op.Track
			defaultAdd = -1

		case models.OpAdd:
			if models.SubtitleFormatFromPath(op.SubtitlePath) == "" {
				return nil, fmt.Errorf("plan: add: %s is not a recognized subtitle file", op.SubtitlePath)
			}
			adds = append(adds, ffmpeg.SubtitleInput{
				Path:     op.SubtitlePath,
				Language: op.Language,
				Title:    op.Title,
			})
			if op.Default {
				defaultAdd = len(adds) - 1
				defaultTrack = -1
			}

		default:
			return nil, fmt.Errorf("plan: unknown operation kind %q", op.Kind)
		}
	}

	spec := &ffmpeg.RemuxSpec{
		InputPath:      inputPath,
		Streams:        probe.Streams,
		RemoveStreams:  make(map[int]bool),
		Adds:           adds,
		DefaultOrdinal: -1,
		OutputPath:     outputPath,
	}

	// Translate removed ordinals to absolute stream indexes and compute the
	// output ordinal layout: kept originals keep their relative order, adds
	// follow.
	kept := 0
	outputOrdinal := make(map[int]int) // original ordinal -> output ordinal
	for i, track := range tracks {
		if removed[i] {
			spec.RemoveStreams[track.StreamIndex] = true
			continue
		}
		outputOrdinal[i] = kept
		kept++
	}

	if defaultTrack >= 0 {
		spec.DefaultOrdinal = outputOrdinal[defaultTrack]
	} else if defaultAdd >= 0 {
		spec.DefaultOrdinal = kept + defaultAdd
	}

	return spec, nil
}
