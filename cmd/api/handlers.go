package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"subedit/internal/ffmpeg"
	"subedit/internal/metrics"
	"subedit/pkg/models"
)

func (api *API) healthCheck(c *gin.Context) {
	status := "healthy"
	checks := gin.H{}

	if err := api.repo.Health(c.Request.Context()); err != nil {
		status = "unhealthy"
		checks["database"] = err.Error()
	} else {
		checks["database"] = "ok"
	}

	if err := api.cache.Ping(c.Request.Context()); err != nil {
		status = "unhealthy"
		checks["cache"] = err.Error()
	} else {
		checks["cache"] = "ok"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status, "checks": checks})
}

// uploadVideo receives a container file, probes it, and registers it
func (api *API) uploadVideo(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video file provided"})
		return
	}

	if !models.IsContainerFile(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported container format: %s", filepath.Ext(file.Filename))})
		return
	}

	tempDir, err := os.MkdirTemp(api.cfg.Editor.TempDir, "upload-")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temp directory"})
		return
	}
	defer os.RemoveAll(tempDir)

	tempPath := filepath.Join(tempDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save uploaded file"})
		return
	}

	api.registerVideo(c, tempPath)
}

// registerVideo probes a local container file, stores it, and creates the
// video record. Shared by the direct and chunked upload paths; writes the
// HTTP response.
func (api *API) registerVideo(c *gin.Context, localPath string) {
	ctx := c.Request.Context()

	probe, err := api.tool.Probe(ctx, localPath)
	if err != nil {
		metrics.RecordProbe("error", 0)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("Failed to probe container: %v", err)})
		return
	}
	tracks := probe.SubtitleTracks()
	metrics.RecordProbe("success", len(tracks))

	video := &models.Video{
		Filename: filepath.Base(localPath),
		Duration: probe.Duration(),
		Size:     probe.SizeBytes(),
		Format:   probe.Format.FormatName,
		Metadata: models.Metadata{"subtitle_tracks": len(tracks)},
	}
	for _, stream := range probe.Streams {
		if stream.CodecType == "video" {
			video.Metadata["video_codec"] = stream.CodecName
			break
		}
	}
	video.ID = uuid.New().String()
	video.OriginalURL = fmt.Sprintf("videos/%s/original/%s", video.ID, filepath.Base(localPath))
	video.Status = models.VideoStatusReady

	if err := api.storage.UploadFile(ctx, video.OriginalURL, localPath); err != nil {
		api.log.WithError(err).WithVideoID(video.ID).Errorf("Failed to upload video")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store video"})
		return
	}

	if err := api.repo.CreateVideo(ctx, video); err != nil {
		api.log.WithError(err).WithVideoID(video.ID).Errorf("Failed to create video record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create video record"})
		return
	}

	if api.cfg.Editor.EnableCache {
		api.cache.SetTracks(ctx, video.ID, tracks, api.cfg.Editor.CacheTTL)
	}

	metrics.VideoUploadsTotal.Inc()
	metrics.VideoUploadSizeBytes.Observe(float64(video.Size))

	api.webhooks.NotifyVideoUploaded(ctx, video)

	c.JSON(http.StatusCreated, gin.H{"video": video, "tracks": tracks})
}

func (api *API) getVideo(c *gin.Context) {
	ctx := c.Request.Context()
	videoID := c.Param("id")

	if api.cfg.Editor.EnableCache {
		if video, err := api.cache.GetVideo(ctx, videoID); err == nil && video != nil {
			metrics.RecordCacheAccess("video", true)
			c.JSON(http.StatusOK, video)
			return
		}
		metrics.RecordCacheAccess("video", false)
	}

	video, err := api.repo.GetVideo(ctx, videoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	if api.cfg.Editor.EnableCache {
		api.cache.SetVideo(ctx, video, api.cfg.Editor.CacheTTL)
	}

	c.JSON(http.StatusOK, video)
}

func (api *API) listVideos(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	videos, err := api.repo.ListVideos(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list videos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": videos, "limit": limit, "offset": offset})
}

func (api *API) deleteVideo(c *gin.Context) {
	ctx := c.Request.Context()
	videoID := c.Param("id")

	if _, err := api.repo.GetVideo(ctx, videoID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	if err := api.repo.DeleteVideo(ctx, videoID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete video"})
		return
	}

	// Best effort cleanup of cached state and stored objects
	api.cache.DeleteVideo(ctx, videoID)
	api.cache.DeleteTracks(ctx, videoID)
	api.cache.ClearPendingOps(ctx, videoID)

	if keys, err := api.storage.List(ctx, fmt.Sprintf("videos/%s/", videoID)); err == nil {
		for _, key := range keys {
			api.storage.Delete(ctx, key)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}

// listTracks returns the subtitle streams of a video, probing the stored
// container on cache miss.
func (api *API) listTracks(c *gin.Context) {
	ctx := c.Request.Context()
	videoID := c.Param("id")

	video, err := api.repo.GetVideo(ctx, videoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	tracks, err := api.videoTracks(c, video)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to read tracks: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"video_id": videoID, "tracks": tracks, "count": len(tracks)})
}

// videoTracks reads the subtitle track list from cache, downloading and
// probing the original container on a miss.
func (api *API) videoTracks(c *gin.Context, video *models.Video) ([]models.SubtitleTrack, error) {
	ctx := c.Request.Context()

	if api.cfg.Editor.EnableCache {
		if tracks, err := api.cache.GetTracks(ctx, video.ID); err == nil && tracks != nil {
			metrics.RecordCacheAccess("tracks", true)
			return tracks, nil
		}
		metrics.RecordCacheAccess("tracks", false)
	}

	tempDir, err := os.MkdirTemp(api.cfg.Editor.TempDir, "probe-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	localPath := filepath.Join(tempDir, filepath.Base(video.OriginalURL))
	if err := api.storage.DownloadFile(ctx, video.OriginalURL, localPath); err != nil {
		return nil, fmt.Errorf("failed to download video: %w", err)
	}

	probe, err := api.tool.Probe(ctx, localPath)
	if err != nil {
		metrics.RecordProbe("error", 0)
		return nil, err
	}

	tracks := probe.SubtitleTracks()
	metrics.RecordProbe("success", len(tracks))

	if api.cfg.Editor.EnableCache {
		api.cache.SetTracks(ctx, video.ID, tracks, api.cfg.Editor.CacheTTL)
	}

	return tracks, nil
}

// uploadSubtitle stores a subtitle file for later use in an add operation
func (api *API) uploadSubtitle(c *gin.Context) {
	ctx := c.Request.Context()
	videoID := c.Param("id")

	if _, err := api.repo.GetVideo(ctx, videoID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	file, err := c.FormFile("subtitle")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No subtitle file provided"})
		return
	}

	if !models.IsSubtitleFile(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported subtitle format: %s", filepath.Ext(file.Filename))})
		return
	}

	tempDir, err := os.MkdirTemp(api.cfg.Editor.TempDir, "subtitle-")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temp directory"})
		return
	}
	defer os.RemoveAll(tempDir)

	tempPath := filepath.Join(tempDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save uploaded file"})
		return
	}

	key := fmt.Sprintf("videos/%s/subtitles/%s", videoID, filepath.Base(file.Filename))
	if err := api.storage.UploadFile(ctx, key, tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store subtitle"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"subtitle_path": key,
		"format":        models.SubtitleFormatFromPath(file.Filename),
		"size":          file.Size,
	})
}

// queueOperation appends one edit operation to the video's pending queue.
// Track ordinals are validated against the current track list; they keep
// referring to that list until the queue is exported.
func (api *API) queueOperation(c *gin.Context) {
	ctx := c.Request.Context()
	videoID := c.Param("id")

	video, err := api.repo.GetVideo(ctx, videoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	var op models.Operation
	if err := c.ShouldBindJSON(&op); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid operation payload"})
		return
	}

	switch op.Kind {
	case models.OpAdd:
		if op.SubtitlePath == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "subtitle_path is required for add"})
			return
		}
		if !models.IsSubtitleFile(op.SubtitlePath) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported subtitle format: %s", filepath.Ext(op.SubtitlePath))})
			return
		}
		if _, err := api.storage.Stat(ctx, op.SubtitlePath); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Subtitle file not found: %s", op.SubtitlePath)})
			return
		}
		if op.Language == "" {
			op.Language = "und"
		}
	case models.OpRemove, models.OpSetDefault:
		tracks, err := api.videoTracks(c, video)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to read tracks: %v", err)})
			return
		}
		if op.Track < 0 || op.Track >= len(tracks) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Track %d out of range, video has %d subtitle tracks", op.Track, len(tracks))})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown operation kind: %s", op.Kind)})
		return
	}

	if !api.lockPendingOps(c, videoID) {
		return
	}
	defer api.cache.ReleaseLock(ctx, "pending:"+videoID)

	ops, err := api.cache.GetPendingOps(ctx, videoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read pending operations"})
		return
	}

	ops = append(ops, op)
	if err := api.cache.SetPendingOps(ctx, videoID, ops); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store pending operations"})
		return
	}

	api.log.LogOperation(videoID, op.Kind, op.Track)

	c.JSON(http.StatusCreated, gin.H{"operation": op, "pending": len(ops)})
}

// lockPendingOps serializes read-modify-write cycles on a video's pending
// queue. Writes a 409 and returns false when another request holds the lock.
func (api *API) lockPendingOps(c *gin.Context, videoID string) bool {
	locked, err := api.cache.AcquireLock(c.Request.Context(), "pending:"+videoID, api.cfg.Editor.LockTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock pending operations"})
		return false
	}
	if !locked {
		c.JSON(http.StatusConflict, gin.H{"error": "Pending operations are being modified, retry shortly"})
		return false
	}
	return true
}

func (api *API) listOperations(c *gin.Context) {
	ctx := c.Request.Context()
	videoID := c.Param("id")

	ops, err := api.cache.GetPendingOps(ctx, videoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read pending operations"})
		return
	}

	summaries := make([]string, len(ops))
	for i, op := range ops {
		summaries[i] = op.DisplayName()
	}

	c.JSON(http.StatusOK, gin.H{"video_id": videoID, "operations": ops, "summaries": summaries})
}

func (api *API) dropOperation(c *gin.Context) {
	ctx := c.Request.Context()
	videoID := c.Param("id")

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid operation index"})
		return
	}

	if !api.lockPendingOps(c, videoID) {
		return
	}
	defer api.cache.ReleaseLock(ctx, "pending:"+videoID)

	ops, err := api.cache.GetPendingOps(ctx, videoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read pending operations"})
		return
	}

	if index < 0 || index >= len(ops) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Operation %d out of range, %d pending", index, len(ops))})
		return
	}

	removed := ops[index]
	ops = append(ops[:index], ops[index+1:]...)
	if err := api.cache.SetPendingOps(ctx, videoID, ops); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store pending operations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed, "pending": len(ops)})
}

func (api *API) clearOperations(c *gin.Context) {
	if err := api.cache.ClearPendingOps(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear pending operations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pending operations cleared"})
}

// createExportJob snapshots the pending queue into a job and enqueues it.
// A job with no operations still remuxes a fresh copy of the container.
func (api *API) createExportJob(c *gin.Context) {
	ctx := c.Request.Context()
	videoID := c.Param("id")

	video, err := api.repo.GetVideo(ctx, videoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	var req struct {
		Priority     string `json:"priority"`
		OutputFormat string `json:"output_format"`
	}
	c.ShouldBindJSON(&req)

	priority := models.JobPriorityNormal
	switch req.Priority {
	case "low":
		priority = models.JobPriorityLow
	case "high":
		priority = models.JobPriorityHigh
	case "", "normal":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown priority: %s", req.Priority)})
		return
	}

	if req.OutputFormat != "" && !models.IsContainerFile("out."+req.OutputFormat) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported output format: %s", req.OutputFormat)})
		return
	}

	// The snapshot and the clear below must see the same queue
	if !api.lockPendingOps(c, videoID) {
		return
	}
	defer api.cache.ReleaseLock(ctx, "pending:"+videoID)

	ops, err := api.cache.GetPendingOps(ctx, videoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read pending operations"})
		return
	}

	job := &models.Job{
		ID:           uuid.New().String(),
		VideoID:      video.ID,
		Status:       models.JobStatusQueued,
		Priority:     priority,
		Operations:   ops,
		OutputFormat: req.OutputFormat,
	}

	if err := api.repo.CreateJob(ctx, job); err != nil {
		api.log.WithError(err).WithVideoID(videoID).Errorf("Failed to create job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	if err := api.queue.PublishJob(ctx, job); err != nil {
		api.log.WithError(err).WithJobID(job.ID).Errorf("Failed to publish job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue job"})
		return
	}

	api.cache.ClearPendingOps(ctx, videoID)

	label := req.Priority
	if label == "" {
		label = "normal"
	}
	metrics.RecordJobCreated(label)

	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (api *API) getJob(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := c.Param("id")

	job, err := api.repo.GetJob(ctx, jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	// Workers publish fine-grained progress to the cache between database
	// updates.
	if progress, err := api.cache.GetJobProgress(ctx, jobID); err == nil && progress > job.Progress {
		job.Progress = progress
	}

	c.JSON(http.StatusOK, job)
}

func (api *API) getVideoJobs(c *gin.Context) {
	jobs, err := api.repo.GetJobsByVideoID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (api *API) cancelJob(c *gin.Context) {
	if err := api.repo.CancelJob(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job cancelled"})
}

// extractSubtitle pulls one subtitle track out of the stored container
// synchronously and stores the resulting file.
func (api *API) extractSubtitle(c *gin.Context) {
	ctx := c.Request.Context()
	videoID := c.Param("id")

	video, err := api.repo.GetVideo(ctx, videoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	var req struct {
		Track  int    `json:"track"`
		Format string `json:"format"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid extraction payload"})
		return
	}

	if req.Format == "" {
		req.Format = models.SubtitleFormatSRT
	}
	if !models.IsSubtitleFile("out." + req.Format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported subtitle format: %s", req.Format)})
		return
	}

	tempDir, err := os.MkdirTemp(api.cfg.Editor.TempDir, "extract-")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temp directory"})
		return
	}
	defer os.RemoveAll(tempDir)

	localPath := filepath.Join(tempDir, filepath.Base(video.OriginalURL))
	if err := api.storage.DownloadFile(ctx, video.OriginalURL, localPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download video"})
		return
	}

	probe, err := api.tool.Probe(ctx, localPath)
	if err != nil {
		metrics.RecordProbe("error", 0)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("Failed to probe container: %v", err)})
		return
	}

	tracks := probe.SubtitleTracks()
	metrics.RecordProbe("success", len(tracks))

	if req.Track < 0 || req.Track >= len(tracks) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Track %d out of range, video has %d subtitle tracks", req.Track, len(tracks))})
		return
	}

	outputPath := filepath.Join(tempDir, fmt.Sprintf("extracted_%d.%s", req.Track, req.Format))
	err = api.tool.ExtractSubtitle(ctx, ffmpeg.ExtractOptions{
		InputPath:   localPath,
		Track:       req.Track,
		SourceCodec: tracks[req.Track].Codec,
		OutputPath:  outputPath,
	})
	if err != nil {
		metrics.RecordExtraction(req.Format, "error")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("Extraction failed: %v", err)})
		return
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Extraction produced no output"})
		return
	}

	key := fmt.Sprintf("videos/%s/subtitles/extracted_%d.%s", videoID, req.Track, req.Format)
	if err := api.storage.UploadFile(ctx, key, outputPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store subtitle"})
		return
	}

	url, _ := api.storage.GetURL(ctx, key)

	extraction := &models.Extraction{
		ID:       uuid.New().String(),
		VideoID:  videoID,
		Track:    req.Track,
		Language: tracks[req.Track].Language,
		Format:   req.Format,
		Size:     info.Size(),
		URL:      url,
		Path:     key,
	}

	if err := api.repo.CreateExtraction(ctx, extraction); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record extraction"})
		return
	}

	metrics.RecordExtraction(req.Format, "success")

	c.JSON(http.StatusCreated, extraction)
}

func (api *API) listExports(c *gin.Context) {
	exports, err := api.repo.GetExportsByVideoID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list exports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exports": exports})
}

func (api *API) listExtractions(c *gin.Context) {
	extractions, err := api.repo.GetExtractionsByVideoID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list extractions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"extractions": extractions})
}

func (api *API) createWebhook(c *gin.Context) {
	var req struct {
		URL    string               `json:"url" binding:"required"`
		Events models.WebhookEvents `json:"events"`
		Secret string               `json:"secret"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	webhook := &models.Webhook{
		ID:       uuid.New().String(),
		URL:      req.URL,
		Events:   req.Events,
		Secret:   req.Secret,
		IsActive: true,
	}

	if err := api.repo.CreateWebhook(c.Request.Context(), webhook); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create webhook"})
		return
	}

	webhook.Secret = ""
	c.JSON(http.StatusCreated, webhook)
}

func (api *API) listWebhooks(c *gin.Context) {
	webhooks, err := api.repo.ListWebhooks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list webhooks"})
		return
	}

	for _, wh := range webhooks {
		wh.Secret = ""
	}

	c.JSON(http.StatusOK, gin.H{"webhooks": webhooks})
}

func (api *API) deleteWebhook(c *gin.Context) {
	if err := api.repo.DeleteWebhook(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Webhook not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook deleted"})
}
