package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"subedit/internal/ffmpeg"
	"subedit/pkg/models"
)

// loadedSession builds a session with probe state injected directly, so queue
// logic is testable without invoking ffprobe.
func loadedSession() *Session {
	probe := testProbe()
	return &Session{
		tool:      ffmpeg.New("ffmpeg", "ffprobe"),
		videoPath: "movie.mkv",
		probe:     probe,
		tracks:    probe.SubtitleTracks(),
	}
}

func writeTempSubtitle(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "subs.srt")
	content := "1\n00:00:01,000 --> 00:00:02,000\nHello\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestQueueOperations(t *testing.T) {
	s := loadedSession()
	subPath := writeTempSubtitle(t)

	if err := s.QueueAdd(subPath, "en", "English", false); err != nil {
		t.Fatalf("QueueAdd failed: %v", err)
	}
	if err := s.QueueRemove(1); err != nil {
		t.Fatalf("QueueRemove failed: %v", err)
	}
	if err := s.QueueSetDefault(0); err != nil {
		t.Fatalf("QueueSetDefault failed: %v", err)
	}

	pending := s.Pending()
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending operations, got %d", len(pending))
	}
	if pending[0].Kind != models.OpAdd || pending[1].Kind != models.OpRemove || pending[2].Kind != models.OpSetDefault {
		t.Errorf("pending order wrong: %+v", pending)
	}
}

func TestQueueValidation(t *testing.T) {
	s := loadedSession()

	if err := s.QueueRemove(7); !errors.Is(err, ErrTrackOutOfRange) {
		t.Errorf("QueueRemove(7) error = %v, want ErrTrackOutOfRange", err)
	}
	if err := s.QueueSetDefault(-1); !errors.Is(err, ErrTrackOutOfRange) {
		t.Errorf("QueueSetDefault(-1) error = %v, want ErrTrackOutOfRange", err)
	}
	if err := s.QueueAdd("/nonexistent/subs.srt", "en", "", false); err == nil {
		t.Error("QueueAdd with missing file should fail")
	}
}

func TestQueueRequiresLoadedVideo(t *testing.T) {
	s := NewSession(ffmpeg.New("ffmpeg", "ffprobe"))

	if err := s.QueueRemove(0); !errors.Is(err, ErrNoVideo) {
		t.Errorf("QueueRemove error = %v, want ErrNoVideo", err)
	}
	if err := s.QueueSetDefault(0); !errors.Is(err, ErrNoVideo) {
		t.Errorf("QueueSetDefault error = %v, want ErrNoVideo", err)
	}
}

func TestDropAndClearPending(t *testing.T) {
	s := loadedSession()

	if err := s.QueueRemove(0); err != nil {
		t.Fatal(err)
	}
	if err := s.QueueRemove(1); err != nil {
		t.Fatal(err)
	}

	if err := s.DropPending(0); err != nil {
		t.Fatalf("DropPending failed: %v", err)
	}

	pending := s.Pending()
	if len(pending) != 1 || pending[0].Track != 1 {
		t.Errorf("pending after drop = %+v", pending)
	}

	if err := s.DropPending(5); !errors.Is(err, ErrNoPendingOp) {
		t.Errorf("DropPending(5) error = %v, want ErrNoPendingOp", err)
	}

	s.ClearPending()
	if len(s.Pending()) != 0 {
		t.Error("ClearPending left operations behind")
	}
}

func TestLoadRejectsNonContainer(t *testing.T) {
	s := NewSession(ffmpeg.New("ffmpeg", "ffprobe"))

	path := writeTempSubtitle(t)
	if err := s.Load(context.Background(), path); err == nil {
		t.Error("Load should reject a subtitle file")
	}

	if err := s.Load(context.Background(), "/nonexistent/movie.mkv"); err == nil {
		t.Error("Load should reject a missing file")
	}

	if err := s.Load(context.Background(), t.TempDir()); err == nil {
		t.Error("Load should reject a directory")
	}
}

func TestExportWithoutOperationsCopies(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "movie.mkv")
	if err := os.WriteFile(src, []byte("container bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	probe := testProbe()
	s := &Session{
		tool:      ffmpeg.New("ffmpeg", "ffprobe"),
		videoPath: src,
		probe:     probe,
		tracks:    probe.SubtitleTracks(),
	}

	dst := filepath.Join(dir, "exported.mkv")
	if err := s.Export(context.Background(), dst); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "container bytes" {
		t.Errorf("exported copy differs from source: %q", data)
	}
}

func TestExportRequiresLoadedVideo(t *testing.T) {
	s := NewSession(ffmpeg.New("ffmpeg", "ffprobe"))
	if err := s.Export(context.Background(), "out.mkv"); !errors.Is(err, ErrNoVideo) {
		t.Errorf("Export error = %v, want ErrNoVideo", err)
	}
}

func TestExtractValidation(t *testing.T) {
	s := loadedSession()

	if err := s.Extract(context.Background(), 9, "out.srt"); !errors.Is(err, ErrTrackOutOfRange) {
		t.Errorf("Extract(9) error = %v, want ErrTrackOutOfRange", err)
	}
}
