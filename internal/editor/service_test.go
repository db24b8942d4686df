package editor

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"subedit/internal/config"
	"subedit/internal/ffmpeg"
	"subedit/internal/logging"
	"subedit/pkg/models"
)

type fakeRepo struct {
	video      *models.Video
	jobUpdates []string
	exports    []*models.Export
}

func (r *fakeRepo) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	return r.video, nil
}

func (r *fakeRepo) UpdateVideo(ctx context.Context, video *models.Video) error {
	r.video = video
	return nil
}

func (r *fakeRepo) UpdateJob(ctx context.Context, job *models.Job) error {
	r.jobUpdates = append(r.jobUpdates, job.Status)
	return nil
}

func (r *fakeRepo) CreateExport(ctx context.Context, export *models.Export) error {
	r.exports = append(r.exports, export)
	return nil
}

type fakeStore struct {
	content []byte
}

func (s *fakeStore) DownloadFile(ctx context.Context, objectName, filePath string) error {
	return os.WriteFile(filePath, s.content, 0644)
}

func (s *fakeStore) UploadFile(ctx context.Context, objectName, filePath string) error {
	return nil
}

func (s *fakeStore) GetURL(ctx context.Context, objectName string) (string, error) {
	return "http://storage.local/" + objectName, nil
}

type fakeLocker struct {
	available bool
}

func (l *fakeLocker) AcquireLock(ctx context.Context, resource string, ttl time.Duration) (bool, error) {
	return l.available, nil
}

func (l *fakeLocker) ReleaseLock(ctx context.Context, resource string) error {
	return nil
}

type fakeNotifier struct {
	events []string
}

func (n *fakeNotifier) Notify(ctx context.Context, event string, data interface{}) error {
	n.events = append(n.events, event)
	return nil
}

func newTestService(t *testing.T, repo *fakeRepo, locker *fakeLocker, notifier *fakeNotifier) *Service {
	t.Helper()
	cfg := config.EditorConfig{
		TempDir: t.TempDir(),
		LockTTL: time.Minute,
	}
	tool := ffmpeg.New("/nonexistent/ffmpeg", "/nonexistent/ffprobe")
	log, err := logging.NewDefaultLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return NewService(cfg, tool, &fakeStore{content: []byte("not a real container")}, repo, locker, notifier, log)
}

func TestProcessJobLockedVideo(t *testing.T) {
	repo := &fakeRepo{video: &models.Video{ID: "v1", Filename: "movie.mkv"}}
	svc := newTestService(t, repo, &fakeLocker{available: false}, &fakeNotifier{})

	job := &models.Job{ID: "j1", VideoID: "v1", Status: models.JobStatusQueued}
	err := svc.ProcessJob(context.Background(), job)
	if err == nil {
		t.Fatal("Expected error when video lock is held")
	}
	if !strings.Contains(err.Error(), "export in progress") {
		t.Errorf("Unexpected error: %v", err)
	}
	if len(repo.jobUpdates) != 0 {
		t.Errorf("Job should not be touched when lock is unavailable, got updates %v", repo.jobUpdates)
	}
}

func TestProcessJobProbeFailureMarksJobFailed(t *testing.T) {
	repo := &fakeRepo{video: &models.Video{ID: "v1", Filename: "movie.mkv", OriginalURL: "videos/v1/movie.mkv"}}
	notifier := &fakeNotifier{}
	svc := newTestService(t, repo, &fakeLocker{available: true}, notifier)

	job := &models.Job{ID: "j1", VideoID: "v1", Status: models.JobStatusQueued}
	err := svc.ProcessJob(context.Background(), job)
	if err == nil {
		t.Fatal("Expected error when ffprobe is unavailable")
	}

	if job.Status != models.JobStatusFailed {
		t.Errorf("Expected job status %q, got %q", models.JobStatusFailed, job.Status)
	}
	if job.ErrorMsg == "" {
		t.Error("Expected error message on failed job")
	}
	if repo.video.Status != models.VideoStatusFailed {
		t.Errorf("Expected video status %q, got %q", models.VideoStatusFailed, repo.video.Status)
	}

	wantEvents := []string{models.WebhookEventExportStarted, models.WebhookEventExportFailed}
	if len(notifier.events) != len(wantEvents) {
		t.Fatalf("Expected events %v, got %v", wantEvents, notifier.events)
	}
	for i, event := range wantEvents {
		if notifier.events[i] != event {
			t.Errorf("Event %d: expected %q, got %q", i, event, notifier.events[i])
		}
	}
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		original string
		format   string
		want     string
	}{
		{"movie.mkv", "", "exported_movie.mkv"},
		{"movie.mkv", "mp4", "exported_movie.mp4"},
		{"movie.mkv", ".mp4", "exported_movie.mp4"},
		{"clip.final.mp4", "", "exported_clip.final.mp4"},
	}

	for _, tt := range tests {
		got := exportFilename(tt.original, tt.format)
		if got != tt.want {
			t.Errorf("exportFilename(%q, %q) = %q, want %q", tt.original, tt.format, got, tt.want)
		}
	}
}
