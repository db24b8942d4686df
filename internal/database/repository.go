package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"subedit/pkg/models"
)

// Repository provides database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Health checks database connectivity
func (r *Repository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

// Videos

// CreateVideo creates a new video record
func (r *Repository) CreateVideo(ctx context.Context, video *models.Video) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}

	query := `
		INSERT INTO videos (id, filename, original_url, size, duration, format, metadata, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		video.ID, video.Filename, video.OriginalURL, video.Size, video.Duration,
		video.Format, video.Metadata, video.Status,
	).Scan(&video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetVideo retrieves a video by ID
func (r *Repository) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video

	query := `
		SELECT id, filename, original_url, size, duration, format, metadata,
		       status, created_at, updated_at
		FROM videos
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&video.ID, &video.Filename, &video.OriginalURL, &video.Size, &video.Duration,
		&video.Format, &video.Metadata, &video.Status, &video.CreatedAt, &video.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("video not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return &video, nil
}

// UpdateVideo updates a video record
func (r *Repository) UpdateVideo(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET filename = $2, original_url = $3, size = $4, duration = $5,
		    format = $6, metadata = $7, status = $8, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query,
		video.ID, video.Filename, video.OriginalURL, video.Size, video.Duration,
		video.Format, video.Metadata, video.Status,
	)

	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	return nil
}

// ListVideos retrieves all videos with pagination
func (r *Repository) ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	query := `
		SELECT id, filename, original_url, size, duration, format, metadata,
		       status, created_at, updated_at
		FROM videos
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		var video models.Video
		err := rows.Scan(
			&video.ID, &video.Filename, &video.OriginalURL, &video.Size, &video.Duration,
			&video.Format, &video.Metadata, &video.Status, &video.CreatedAt, &video.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, &video)
	}

	return videos, nil
}

// DeleteVideo deletes a video record
func (r *Repository) DeleteVideo(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}

// Jobs

// CreateJob creates a new export job record
func (r *Repository) CreateJob(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}

	query := `
		INSERT INTO jobs (id, video_id, status, priority, progress, retry_count, operations, output_format)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		job.ID, job.VideoID, job.Status, job.Priority, job.Progress,
		job.RetryCount, job.Operations, job.OutputFormat,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetJob retrieves a job by ID
func (r *Repository) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job

	query := `
		SELECT id, video_id, status, priority, progress, error_msg, retry_count,
		       worker_id, operations, output_format, started_at, completed_at,
		       created_at, updated_at
		FROM jobs
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.VideoID, &job.Status, &job.Priority, &job.Progress,
		&job.ErrorMsg, &job.RetryCount, &job.WorkerID, &job.Operations,
		&job.OutputFormat, &job.StartedAt, &job.CompletedAt,
		&job.CreatedAt, &job.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// UpdateJob updates a job record
func (r *Repository) UpdateJob(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs
		SET status = $2, priority = $3, progress = $4, error_msg = $5,
		    retry_count = $6, worker_id = $7, operations = $8, output_format = $9,
		    started_at = $10, completed_at = $11, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query,
		job.ID, job.Status, job.Priority, job.Progress, job.ErrorMsg,
		job.RetryCount, job.WorkerID, job.Operations, job.OutputFormat,
		job.StartedAt, job.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	return nil
}

// GetJobsByVideoID retrieves all jobs for a video
func (r *Repository) GetJobsByVideoID(ctx context.Context, videoID string) ([]*models.Job, error) {
	query := `
		SELECT id, video_id, status, priority, progress, error_msg, retry_count,
		       worker_id, operations, output_format, started_at, completed_at,
		       created_at, updated_at
		FROM jobs
		WHERE video_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		var job models.Job
		err := rows.Scan(
			&job.ID, &job.VideoID, &job.Status, &job.Priority, &job.Progress,
			&job.ErrorMsg, &job.RetryCount, &job.WorkerID, &job.Operations,
			&job.OutputFormat, &job.StartedAt, &job.CompletedAt,
			&job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, &job)
	}

	return jobs, nil
}

// CancelJob cancels a queued job. Jobs already picked up by a worker
// cannot be cancelled.
func (r *Repository) CancelJob(ctx context.Context, id string) error {
	query := `
		UPDATE jobs
		SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = $3
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, models.JobStatusCancelled, models.JobStatusQueued)
	if err != nil {
		return fmt.Errorf("failed to cancel job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job is not in queued state")
	}

	return nil
}

// Exports

// CreateExport creates a new export record
func (r *Repository) CreateExport(ctx context.Context, export *models.Export) error {
	if export.ID == "" {
		export.ID = uuid.New().String()
	}

	query := `
		INSERT INTO exports (id, job_id, video_id, filename, format, size,
		                     duration, subtitle_count, url, path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		export.ID, export.JobID, export.VideoID, export.Filename, export.Format,
		export.Size, export.Duration, export.SubtitleCount, export.URL, export.Path,
	).Scan(&export.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create export: %w", err)
	}

	return nil
}

// GetExportsByVideoID retrieves all exports for a video
func (r *Repository) GetExportsByVideoID(ctx context.Context, videoID string) ([]*models.Export, error) {
	query := `
		SELECT id, job_id, video_id, filename, format, size, duration,
		       subtitle_count, url, path, created_at
		FROM exports
		WHERE video_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exports: %w", err)
	}
	defer rows.Close()

	var exports []*models.Export
	for rows.Next() {
		var export models.Export
		err := rows.Scan(
			&export.ID, &export.JobID, &export.VideoID, &export.Filename, &export.Format,
			&export.Size, &export.Duration, &export.SubtitleCount, &export.URL,
			&export.Path, &export.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		exports = append(exports, &export)
	}

	return exports, nil
}

// GetExportByJobID retrieves the export produced by a job
func (r *Repository) GetExportByJobID(ctx context.Context, jobID string) (*models.Export, error) {
	var export models.Export

	query := `
		SELECT id, job_id, video_id, filename, format, size, duration,
		       subtitle_count, url, path, created_at
		FROM exports
		WHERE job_id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, jobID).Scan(
		&export.ID, &export.JobID, &export.VideoID, &export.Filename, &export.Format,
		&export.Size, &export.Duration, &export.SubtitleCount, &export.URL,
		&export.Path, &export.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("export not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export: %w", err)
	}

	return &export, nil
}

// Extractions

// CreateExtraction creates a new extraction record
func (r *Repository) CreateExtraction(ctx context.Context, extraction *models.Extraction) error {
	if extraction.ID == "" {
		extraction.ID = uuid.New().String()
	}

	query := `
		INSERT INTO extractions (id, video_id, track, language, format, size, url, path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		extraction.ID, extraction.VideoID, extraction.Track, extraction.Language,
		extraction.Format, extraction.Size, extraction.URL, extraction.Path,
	).Scan(&extraction.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create extraction: %w", err)
	}

	return nil
}

// GetExtractionsByVideoID retrieves all extractions for a video
func (r *Repository) GetExtractionsByVideoID(ctx context.Context, videoID string) ([]*models.Extraction, error) {
	query := `
		SELECT id, video_id, track, language, format, size, url, path, created_at
		FROM extractions
		WHERE video_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get extractions: %w", err)
	}
	defer rows.Close()

	var extractions []*models.Extraction
	for rows.Next() {
		var extraction models.Extraction
		err := rows.Scan(
			&extraction.ID, &extraction.VideoID, &extraction.Track, &extraction.Language,
			&extraction.Format, &extraction.Size, &extraction.URL, &extraction.Path,
			&extraction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		extractions = append(extractions, &extraction)
	}

	return extractions, nil
}
