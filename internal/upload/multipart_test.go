package upload

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestInitiateRejectsNonContainer(t *testing.T) {
	m := NewManager(t.TempDir(), 0)

	tests := []struct {
		name      string
		filename  string
		size      int64
		expectErr bool
	}{
		{"mkv", "movie.mkv", 100, false},
		{"mp4", "movie.mp4", 100, false},
		{"subtitle file", "movie.srt", 100, true},
		{"no extension", "movie", 100, true},
		{"zero size", "movie.mkv", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Initiate(tt.filename, tt.size)
			if tt.expectErr && err == nil {
				t.Errorf("Initiate(%q, %d) expected error, got nil", tt.filename, tt.size)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Initiate(%q, %d) unexpected error: %v", tt.filename, tt.size, err)
			}
		})
	}
}

func TestPartCount(t *testing.T) {
	m := NewManager(t.TempDir(), 10)

	tests := []struct {
		size  int64
		parts int
	}{
		{1, 1},
		{10, 1},
		{11, 2},
		{25, 3},
	}

	for _, tt := range tests {
		session, err := m.Initiate("movie.mkv", tt.size)
		if err != nil {
			t.Fatalf("Initiate failed: %v", err)
		}
		if session.TotalParts != tt.parts {
			t.Errorf("size %d: expected %d parts, got %d", tt.size, tt.parts, session.TotalParts)
		}
	}
}

func TestChunkedUploadRoundTrip(t *testing.T) {
	m := NewManager(t.TempDir(), 4)

	content := "abcdefgh12"
	session, err := m.Initiate("movie.mkv", int64(len(content)))
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	if session.TotalParts != 3 {
		t.Fatalf("expected 3 parts, got %d", session.TotalParts)
	}

	// Deliver parts out of order
	for _, n := range []int{2, 3, 1} {
		start := (n - 1) * 4
		end := start + 4
		if end > len(content) {
			end = len(content)
		}

		part, err := m.PutPart(session.ID, n, strings.NewReader(content[start:end]))
		if err != nil {
			t.Fatalf("PutPart(%d) failed: %v", n, err)
		}
		if !part.Uploaded {
			t.Errorf("part %d not marked uploaded", n)
		}
		if part.ETag == "" {
			t.Errorf("part %d has empty etag", n)
		}
	}

	path, err := m.Complete(session.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading assembled file: %v", err)
	}
	if !bytes.Equal(data, []byte(content)) {
		t.Errorf("assembled content mismatch: got %q, want %q", data, content)
	}

	got, err := m.Get(session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("expected status %q, got %q", StatusCompleted, got.Status)
	}
}

func TestCompleteMissingPart(t *testing.T) {
	m := NewManager(t.TempDir(), 4)

	session, err := m.Initiate("movie.mkv", 10)
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	if _, err := m.PutPart(session.ID, 1, strings.NewReader("abcd")); err != nil {
		t.Fatalf("PutPart failed: %v", err)
	}

	if _, err := m.Complete(session.ID); err == nil {
		t.Error("Complete with missing parts expected error, got nil")
	}
}

func TestPutPartOutOfRange(t *testing.T) {
	m := NewManager(t.TempDir(), 4)

	session, err := m.Initiate("movie.mkv", 10)
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	if _, err := m.PutPart(session.ID, 0, strings.NewReader("x")); err == nil {
		t.Error("part 0 expected error, got nil")
	}
	if _, err := m.PutPart(session.ID, 4, strings.NewReader("x")); err == nil {
		t.Error("part past total expected error, got nil")
	}
}

func TestAbort(t *testing.T) {
	m := NewManager(t.TempDir(), 4)

	session, err := m.Initiate("movie.mkv", 10)
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	if err := m.Abort(session.ID); err != nil {
		t.Fatalf("Abort failed: %v", err)
	}

	if _, err := m.Get(session.ID); err == nil {
		t.Error("Get after Abort expected error, got nil")
	}

	if _, err := m.PutPart(session.ID, 1, strings.NewReader("abcd")); err == nil {
		t.Error("PutPart after Abort expected error, got nil")
	}
}

func TestCleanupExpired(t *testing.T) {
	m := NewManager(t.TempDir(), 4)

	session, err := m.Initiate("movie.mkv", 10)
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	// Force expiration
	session.ExpiresAt = session.CreatedAt.Add(-time.Hour)
	m.CleanupExpired()

	if _, err := m.Get(session.ID); err == nil {
		t.Error("Get after expiration cleanup expected error, got nil")
	}
}
