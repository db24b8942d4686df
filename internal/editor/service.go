package editor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"subedit/internal/config"
	"subedit/internal/ffmpeg"
	"subedit/internal/logging"
	"subedit/internal/metrics"
	"subedit/internal/tracing"
	"subedit/pkg/models"
)

// Repository is the persistence surface the service needs
type Repository interface {
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	UpdateVideo(ctx context.Context, video *models.Video) error
	UpdateJob(ctx context.Context, job *models.Job) error
	CreateExport(ctx context.Context, export *models.Export) error
}

// ObjectStore is the storage surface the service needs
type ObjectStore interface {
	DownloadFile(ctx context.Context, objectName, filePath string) error
	UploadFile(ctx context.Context, objectName, filePath string) error
	GetURL(ctx context.Context, objectName string) (string, error)
}

// Locker serializes exports per video
type Locker interface {
	AcquireLock(ctx context.Context, resource string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, resource string) error
}

// Notifier delivers job lifecycle events
type Notifier interface {
	Notify(ctx context.Context, event string, data interface{}) error
}

// Service processes export jobs: download the source container, apply the
// queued operations in one remux, upload the result.
type Service struct {
	tool     *ffmpeg.Tool
	store    ObjectStore
	repo     Repository
	locker   Locker
	notifier Notifier
	cfg      config.EditorConfig
	workerID string
	log      *logging.Logger
}

// NewService creates an export service
func NewService(
	cfg config.EditorConfig,
	tool *ffmpeg.Tool,
	store ObjectStore,
	repo Repository,
	locker Locker,
	notifier Notifier,
	log *logging.Logger,
) *Service {
	return &Service{
		tool:     tool,
		store:    store,
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		cfg:      cfg,
		workerID: uuid.New().String(),
		log:      log,
	}
}

// WorkerID returns this service's worker identity
func (s *Service) WorkerID() string {
	return s.workerID
}

// ProcessJob processes one export job. A per-video lock enforces one export
// at a time against the same source container.
func (s *Service) ProcessJob(ctx context.Context, job *models.Job) error {
	span, ctx := tracing.StartJobSpan(ctx, "editor.ProcessJob", job.ID, job.VideoID)
	defer span.Finish()

	log := s.log.WithJobID(job.ID).WithVideoID(job.VideoID)

	acquired, err := s.locker.AcquireLock(ctx, "video:"+job.VideoID, s.cfg.LockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire video lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("video %s has an export in progress", job.VideoID)
	}
	defer s.locker.ReleaseLock(ctx, "video:"+job.VideoID)

	start := time.Now()
	metrics.ExportJobsInProgress.Inc()
	defer metrics.ExportJobsInProgress.Dec()

	job.Status = models.JobStatusProcessing
	job.WorkerID = s.workerID
	now := time.Now()
	job.StartedAt = &now
	job.Progress = 0

	if err := s.repo.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	s.notify(ctx, models.WebhookEventExportStarted, job)

	video, err := s.repo.GetVideo(ctx, job.VideoID)
	if err != nil {
		return s.failJob(ctx, job, fmt.Errorf("failed to get video: %w", err))
	}

	video.Status = models.VideoStatusExporting
	if err := s.repo.UpdateVideo(ctx, video); err != nil {
		return s.failJob(ctx, job, fmt.Errorf("failed to update video status: %w", err))
	}

	tempDir := filepath.Join(s.cfg.TempDir, job.ID)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return s.failJob(ctx, job, fmt.Errorf("failed to create temp directory: %w", err))
	}
	defer os.RemoveAll(tempDir)

	inputPath := filepath.Join(tempDir, "input"+filepath.Ext(video.Filename))
	if err := s.store.DownloadFile(ctx, video.OriginalURL, inputPath); err != nil {
		return s.failJob(ctx, job, fmt.Errorf("failed to download video: %w", err))
	}

	ops, err := s.localizeOperations(ctx, job.Operations, tempDir)
	if err != nil {
		return s.failJob(ctx, job, err)
	}

	s.updateProgress(ctx, job, 25)

	probe, err := s.tool.Probe(ctx, inputPath)
	if err != nil {
		return s.failJob(ctx, job, fmt.Errorf("failed to probe video: %w", err))
	}

	outputFilename := exportFilename(video.Filename, job.OutputFormat)
	outputPath := filepath.Join(tempDir, outputFilename)

	if len(ops) == 0 {
		if err := copyFile(inputPath, outputPath); err != nil {
			return s.failJob(ctx, job, fmt.Errorf("export copy failed: %w", err))
		}
	} else {
		spec, err := Plan(probe, ops, inputPath, outputPath)
		if err != nil {
			return s.failJob(ctx, job, err)
		}
		if err := s.tool.Remux(ctx, *spec); err != nil {
			return s.failJob(ctx, job, err)
		}
	}

	s.updateProgress(ctx, job, 60)

	outputInfo, err := os.Stat(outputPath)
	if err != nil {
		return s.failJob(ctx, job, fmt.Errorf("failed to stat output file: %w", err))
	}

	outputProbe, err := s.tool.Probe(ctx, outputPath)
	if err != nil {
		return s.failJob(ctx, job, fmt.Errorf("failed to probe output: %w", err))
	}

	storageKey := fmt.Sprintf("videos/%s/exports/%s", video.ID, outputFilename)
	if err := s.store.UploadFile(ctx, storageKey, outputPath); err != nil {
		return s.failJob(ctx, job, fmt.Errorf("failed to upload output: %w", err))
	}

	s.updateProgress(ctx, job, 90)

	url, err := s.store.GetURL(ctx, storageKey)
	if err != nil {
		return s.failJob(ctx, job, fmt.Errorf("failed to get output URL: %w", err))
	}

	export := &models.Export{
		ID:            uuid.New().String(),
		JobID:         job.ID,
		VideoID:       video.ID,
		Filename:      outputFilename,
		Format:        strings.TrimPrefix(filepath.Ext(outputFilename), "."),
		Size:          outputInfo.Size(),
		Duration:      outputProbe.Duration(),
		SubtitleCount: len(outputProbe.SubtitleTracks()),
		URL:           url,
		Path:          storageKey,
	}

	if err := s.repo.CreateExport(ctx, export); err != nil {
		return s.failJob(ctx, job, fmt.Errorf("failed to create export record: %w", err))
	}

	job.Status = models.JobStatusCompleted
	job.Progress = 100
	completed := time.Now()
	job.CompletedAt = &completed

	if err := s.repo.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	video.Status = models.VideoStatusReady
	if err := s.repo.UpdateVideo(ctx, video); err != nil {
		return fmt.Errorf("failed to update video status: %w", err)
	}

	metrics.ExportJobsCompleted.WithLabelValues(models.JobStatusCompleted).Inc()
	metrics.ExportDuration.Observe(time.Since(start).Seconds())
	for _, op := range job.Operations {
		metrics.OperationsApplied.WithLabelValues(op.Kind).Inc()
	}

	s.notify(ctx, models.WebhookEventExportCompleted, export)
	log.LogJobEvent(job.ID, "export", job.Status, map[string]interface{}{
		"output":     storageKey,
		"operations": len(job.Operations),
	})

	return nil
}

// localizeOperations downloads the subtitle files referenced by add
// operations and rewrites their paths to the local copies.
func (s *Service) localizeOperations(ctx context.Context, ops models.OperationList, tempDir string) ([]models.Operation, error) {
	local := make([]models.Operation, len(ops))
	copy(local, ops)

	for i := range local {
		if local[i].Kind != models.OpAdd {
			continue
		}

		ext := filepath.Ext(local[i].SubtitlePath)
		path := filepath.Join(tempDir, fmt.Sprintf("subtitle_%d%s", i, ext))
		if err := s.store.DownloadFile(ctx, local[i].SubtitlePath, path); err != nil {
			return nil, fmt.Errorf("failed to download subtitle %s: %w", local[i].SubtitlePath, err)
		}
		local[i].SubtitlePath = path
	}

	return local, nil
}

// failJob marks a job as failed and updates the database
func (s *Service) failJob(ctx context.Context, job *models.Job, err error) error {
	job.Status = models.JobStatusFailed
	job.ErrorMsg = err.Error()
	completed := time.Now()
	job.CompletedAt = &completed

	if updateErr := s.repo.UpdateJob(ctx, job); updateErr != nil {
		return fmt.Errorf("failed to update job: %w (original error: %v)", updateErr, err)
	}

	if video, getErr := s.repo.GetVideo(ctx, job.VideoID); getErr == nil {
		video.Status = models.VideoStatusFailed
		s.repo.UpdateVideo(ctx, video)
	}

	metrics.ExportJobsCompleted.WithLabelValues(models.JobStatusFailed).Inc()
	s.notify(ctx, models.WebhookEventExportFailed, job)

	return err
}

func (s *Service) updateProgress(ctx context.Context, job *models.Job, progress float64) {
	job.Progress = progress
	s.repo.UpdateJob(ctx, job)
}

func (s *Service) notify(ctx context.Context, event string, data interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event, data); err != nil {
		s.log.WithError(err).Warnf("webhook notification failed for %s", event)
	}
}

// exportFilename derives the output filename for a job: the original name
// with an "exported_" prefix, re-extensioned when the job asks for a
// different container format.
func exportFilename(original, format string) string {
	base := strings.TrimSuffix(original, filepath.Ext(original))
	ext := filepath.Ext(original)
	if format != "" {
		ext = "." + strings.TrimPrefix(format, ".")
	}
	return "exported_" + base + ext
}
