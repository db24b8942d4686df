package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subedit_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Upload Metrics
	VideoUploadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "subedit_video_uploads_total",
			Help: "Total number of video uploads",
		},
	)

	VideoUploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "subedit_video_upload_size_bytes",
			Help:    "Size of uploaded videos in bytes",
			Buckets: prometheus.ExponentialBuckets(1024*1024, 2, 15), // 1MB to 16GB
		},
	)

	// Probe Metrics
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_probes_total",
			Help: "Total number of container probes",
		},
		[]string{"status"},
	)

	SubtitleTracksDiscovered = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "subedit_subtitle_tracks_discovered",
			Help:    "Number of subtitle tracks found per probed container",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	// Extraction Metrics
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_subtitle_extractions_total",
			Help: "Total number of subtitle track extractions",
		},
		[]string{"format", "status"},
	)

	// Export Job Metrics
	ExportJobsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_export_jobs_created_total",
			Help: "Total number of export jobs created",
		},
		[]string{"priority"},
	)

	ExportJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_export_jobs_completed_total",
			Help: "Total number of completed export jobs",
		},
		[]string{"status"},
	)

	ExportJobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "subedit_export_jobs_in_progress",
			Help: "Number of export jobs currently being processed",
		},
	)

	ExportQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "subedit_export_queue_depth",
			Help: "Number of export jobs waiting in queue",
		},
	)

	ExportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "subedit_export_duration_seconds",
			Help:    "Export job processing duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1 hour
		},
	)

	OperationsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_operations_applied_total",
			Help: "Total number of subtitle operations applied during exports",
		},
		[]string{"kind"},
	)

	// Worker Metrics
	WorkerActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "subedit_worker_active",
			Help: "Number of active export workers",
		},
	)

	WorkerJobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_worker_jobs_processed_total",
			Help: "Total number of jobs processed by workers",
		},
		[]string{"worker_id"},
	)

	// Storage Metrics
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_storage_operations_total",
			Help: "Total number of storage operations",
		},
		[]string{"operation", "status"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subedit_storage_operation_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"operation"},
	)

	StorageBytesTransferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_storage_bytes_transferred_total",
			Help: "Total bytes transferred to/from storage",
		},
		[]string{"operation"},
	)

	// Database Metrics
	DatabaseOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "status"},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subedit_database_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Cache Metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Webhook Metrics
	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_webhook_deliveries_total",
			Help: "Total number of webhook delivery attempts",
		},
		[]string{"event", "status"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subedit_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordProbe records a container probe and its discovered subtitle tracks
func RecordProbe(status string, trackCount int) {
	ProbesTotal.WithLabelValues(status).Inc()
	if status == "success" {
		SubtitleTracksDiscovered.Observe(float64(trackCount))
	}
}

// RecordExtraction records a subtitle extraction
func RecordExtraction(format, status string) {
	ExtractionsTotal.WithLabelValues(format, status).Inc()
}

// RecordJobCreated records an export job creation
func RecordJobCreated(priority string) {
	ExportJobsCreated.WithLabelValues(priority).Inc()
}

// RecordStorageOperation records a storage operation
func RecordStorageOperation(operation, status string, duration float64, bytesTransferred int64) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageOperationDuration.WithLabelValues(operation).Observe(duration)
	StorageBytesTransferred.WithLabelValues(operation).Add(float64(bytesTransferred))
}

// RecordDatabaseOperation records a database operation
func RecordDatabaseOperation(operation, status string, duration float64) {
	DatabaseOperationsTotal.WithLabelValues(operation, status).Inc()
	DatabaseOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordCacheAccess records cache hit or miss
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(cacheType).Inc()
	} else {
		CacheMissesTotal.WithLabelValues(cacheType).Inc()
	}
}

// RecordWebhookDelivery records a webhook delivery attempt
func RecordWebhookDelivery(event, status string) {
	WebhookDeliveriesTotal.WithLabelValues(event, status).Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
