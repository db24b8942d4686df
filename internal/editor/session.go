package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"subedit/internal/ffmpeg"
	"subedit/pkg/models"
)

// Session errors
var (
	ErrNoVideo         = errors.New("no video loaded")
	ErrTrackOutOfRange = errors.New("subtitle track out of range")
	ErrNoPendingOp     = errors.New("no pending operation at index")
)

// Session holds one loaded video and the edit operations queued against it.
// Operations are validated when queued and applied together by Export in a
// single remux pass. The session keeps no authority over the container: the
// probe is re-read on load and revalidated at plan time.
type Session struct {
	mu        sync.Mutex
	tool      *ffmpeg.Tool
	videoPath string
	probe     *ffmpeg.ProbeResult
	tracks    []models.SubtitleTrack
	pending   []models.Operation
}

// NewSession creates a session backed by the given tool
func NewSession(tool *ffmpeg.Tool) *Session {
	return &Session{tool: tool}
}

// Load probes a video file and resets the session to it. Pending operations
// from a previously loaded video are discarded.
func (s *Session) Load(ctx context.Context, videoPath string) error {
	info, err := os.Stat(videoPath)
	if err != nil {
		return fmt.Errorf("cannot open video: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", videoPath)
	}
	if !models.IsContainerFile(videoPath) {
		return fmt.Errorf("%s is not a recognized video container", videoPath)
	}

	probe, err := s.tool.Probe(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("failed to probe video: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.videoPath = videoPath
	s.probe = probe
	s.tracks = probe.SubtitleTracks()
	s.pending = nil
	return nil
}

// VideoPath returns the loaded video path, "" when nothing is loaded
func (s *Session) VideoPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videoPath
}

// Tracks returns the subtitle tracks of the loaded video
func (s *Session) Tracks() []models.SubtitleTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SubtitleTrack(nil), s.tracks...)
}

// Probe returns the cached probe result of the loaded video
func (s *Session) Probe() *ffmpeg.ProbeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.probe
}

// QueueAdd queues muxing an external subtitle file as a new track
func (s *Session) QueueAdd(subtitlePath, language, title string, isDefault bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.videoPath == "" {
		return ErrNoVideo
	}
	if _, err := os.Stat(subtitlePath); err != nil {
		return fmt.Errorf("cannot open subtitle file: %w", err)
	}
	if !models.IsSubtitleFile(subtitlePath) {
		return fmt.Errorf("%s is not a recognized subtitle file", subtitlePath)
	}

	s.pending = append(s.pending, models.Operation{
		Kind:         models.OpAdd,
		SubtitlePath: subtitlePath,
		Language:     language,
		Title:        title,
		Default:      isDefault,
	})
	return nil
}

// QueueRemove queues removal of a subtitle track by ordinal
func (s *Session) QueueRemove(track int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.videoPath == "" {
		return ErrNoVideo
	}
	if track < 0 || track >= len(s.tracks) {
		return fmt.Errorf("%w: %d (have %d)", ErrTrackOutOfRange, track, len(s.tracks))
	}

	s.pending = append(s.pending, models.Operation{
		Kind:  models.OpRemove,
		Track: track,
	})
	return nil
}

// QueueSetDefault queues flagging a subtitle track as default
func (s *Session) QueueSetDefault(track int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.videoPath == "" {
		return ErrNoVideo
	}
	if track < 0 || track >= len(s.tracks) {
		return fmt.Errorf("%w: %d (have %d)", ErrTrackOutOfRange, track, len(s.tracks))
	}

	s.pending = append(s.pending, models.Operation{
		Kind:  models.OpSetDefault,
		Track: track,
	})
	return nil
}

// Pending returns the queued operations in order
func (s *Session) Pending() []models.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Operation(nil), s.pending...)
}

// DropPending removes one queued operation by position
func (s *Session) DropPending(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.pending) {
		return fmt.Errorf("%w: %d", ErrNoPendingOp, index)
	}
	s.pending = append(s.pending[:index], s.pending[index+1:]...)
	return nil
}

// ClearPending drops all queued operations
func (s *Session) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// Extract writes one subtitle track to a file. Extraction is immediate, it
// does not queue.
func (s *Session) Extract(ctx context.Context, track int, outputPath string) error {
	s.mu.Lock()
	if s.videoPath == "" {
		s.mu.Unlock()
		return ErrNoVideo
	}
	if track < 0 || track >= len(s.tracks) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d (have %d)", ErrTrackOutOfRange, track, len(s.tracks))
	}
	opts := ffmpeg.ExtractOptions{
		InputPath:   s.videoPath,
		Track:       track,
		SourceCodec: s.tracks[track].Codec,
		OutputPath:  outputPath,
	}
	s.mu.Unlock()

	return s.tool.ExtractSubtitle(ctx, opts)
}

// Export applies all pending operations in one remux producing outputPath.
// With no pending operations the source file is copied as-is. Pending
// operations are cleared on success.
func (s *Session) Export(ctx context.Context, outputPath string) error {
	s.mu.Lock()
	if s.videoPath == "" {
		s.mu.Unlock()
		return ErrNoVideo
	}
	videoPath := s.videoPath
	probe := s.probe
	ops := append([]models.Operation(nil), s.pending...)
	s.mu.Unlock()

	if len(ops) == 0 {
		if err := copyFile(videoPath, outputPath); err != nil {
			return fmt.Errorf("export copy failed: %w", err)
		}
		return nil
	}

	spec, err := Plan(probe, ops, videoPath, outputPath)
	if err != nil {
		return err
	}

	if err := s.tool.Remux(ctx, *spec); err != nil {
		return err
	}

	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
