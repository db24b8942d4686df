package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"subedit/internal/cache"
	"subedit/internal/config"
	"subedit/internal/database"
	"subedit/internal/ffmpeg"
	"subedit/internal/logging"
	"subedit/internal/metrics"
	"subedit/internal/middleware"
	"subedit/internal/queue"
	"subedit/internal/storage"
	"subedit/internal/tracing"
	"subedit/internal/upload"
	"subedit/internal/webhook"
	"subedit/pkg/models"
)

// Repository is the slice of the database layer the handlers use
type Repository interface {
	Health(ctx context.Context) error
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error)
	DeleteVideo(ctx context.Context, id string) error
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	GetJobsByVideoID(ctx context.Context, videoID string) ([]*models.Job, error)
	CancelJob(ctx context.Context, id string) error
	CreateExtraction(ctx context.Context, extraction *models.Extraction) error
	GetExtractionsByVideoID(ctx context.Context, videoID string) ([]*models.Extraction, error)
	GetExportsByVideoID(ctx context.Context, videoID string) ([]*models.Export, error)
	CreateWebhook(ctx context.Context, webhook *models.Webhook) error
	ListWebhooks(ctx context.Context) ([]*models.Webhook, error)
	DeleteWebhook(ctx context.Context, id string) error
}

// ObjectStore is the slice of the storage layer the handlers use
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName, filePath string) error
	DownloadFile(ctx context.Context, objectName, filePath string) error
	Delete(ctx context.Context, objectName string) error
	List(ctx context.Context, prefix string) ([]string, error)
	GetURL(ctx context.Context, objectName string) (string, error)
	Stat(ctx context.Context, objectName string) (int64, error)
}

// JobQueue publishes export jobs for the workers
type JobQueue interface {
	PublishJob(ctx context.Context, job *models.Job) error
	GetQueueDepth() (int, error)
}

// API bundles the dependencies the HTTP handlers need
type API struct {
	repo     Repository
	storage  ObjectStore
	queue    JobQueue
	cache    *cache.Cache
	tool     *ffmpeg.Tool
	uploads  *upload.Manager
	webhooks *webhook.Service
	cfg      *config.Config
	log      *logging.Logger
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	middleware.SetJWTSecret(cfg.Auth.JWTSecret)

	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer("subedit-api", cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.WithError(err).Warnf("Tracing disabled")
		} else {
			defer closer.Close()
		}
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	stor, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	q, err := queue.New(cfg.Queue)
	if err != nil {
		log.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()

	if err := q.SetupDeadLetterQueue(); err != nil {
		log.Fatalf("Failed to set up dead letter queue: %v", err)
	}

	redisCache, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	tool, err := ffmpeg.Locate(cfg.Editor.FFmpegPath, cfg.Editor.FFprobePath)
	if err != nil {
		// Probing and extraction need the tools, but metadata reads
		// still work, so start anyway.
		log.WithError(err).Warnf("FFmpeg tools not found, container operations will fail")
		tool = ffmpeg.New(cfg.Editor.FFmpegPath, cfg.Editor.FFprobePath)
	}

	if err := os.MkdirAll(cfg.Editor.TempDir, 0755); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}

	webhooks := webhook.NewService(repo)
	uploads := upload.NewManager(cfg.Editor.TempDir, 0)

	api := &API{
		repo:     repo,
		storage:  stor,
		queue:    q,
		cache:    redisCache,
		tool:     tool,
		uploads:  uploads,
		webhooks: webhooks,
		cfg:      cfg,
		log:      log,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go webhooks.RetryWorker(ctx)
	go api.updateQueueDepth(ctx)
	go api.cleanupUploads(ctx)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsServer.Start(); err != nil {
				log.WithError(err).Errorf("Metrics server failed")
			}
		}()
	}

	router := setupRouter(api)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Infof("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if metricsServer != nil {
		metricsServer.Shutdown(shutdownCtx)
	}

	log.Infof("Server stopped")
}

func setupRouter(api *API) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	rl := middleware.NewRateLimiter(20, 40)
	router.Use(middleware.RateLimit(rl))

	router.GET("/health", api.healthCheck)

	v1 := router.Group("/api/v1")
	if api.cfg.Auth.Enabled {
		v1.Use(middleware.JWTAuth())
	}
	{
		// Videos
		v1.POST("/videos/upload", api.uploadVideo)

		// Chunked uploads for large containers
		v1.POST("/uploads", api.initiateChunkedUpload)
		v1.GET("/uploads/:id", api.getChunkedUpload)
		v1.PUT("/uploads/:id/parts/:part", api.putUploadPart)
		v1.POST("/uploads/:id/complete", api.completeChunkedUpload)
		v1.DELETE("/uploads/:id", api.abortChunkedUpload)
		v1.GET("/videos", api.listVideos)
		v1.GET("/videos/:id", api.getVideo)
		v1.DELETE("/videos/:id", api.deleteVideo)

		// Tracks and subtitle files
		v1.GET("/videos/:id/tracks", api.listTracks)
		v1.POST("/videos/:id/subtitles", api.uploadSubtitle)
		v1.POST("/videos/:id/extract", api.extractSubtitle)
		v1.GET("/videos/:id/extractions", api.listExtractions)

		// Pending operations
		v1.POST("/videos/:id/operations", api.queueOperation)
		v1.GET("/videos/:id/operations", api.listOperations)
		v1.DELETE("/videos/:id/operations/:index", api.dropOperation)
		v1.DELETE("/videos/:id/operations", api.clearOperations)

		// Export jobs
		v1.POST("/videos/:id/export", api.createExportJob)
		v1.GET("/videos/:id/jobs", api.getVideoJobs)
		v1.GET("/videos/:id/exports", api.listExports)
		v1.GET("/jobs/:id", api.getJob)
		v1.POST("/jobs/:id/cancel", api.cancelJob)

		// Webhooks
		v1.POST("/webhooks", api.createWebhook)
		v1.GET("/webhooks", api.listWebhooks)
		v1.DELETE("/webhooks/:id", api.deleteWebhook)
	}

	return router
}

// cleanupUploads drops expired chunked upload sessions
func (api *API) cleanupUploads(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			api.uploads.CleanupExpired()
		}
	}
}

// updateQueueDepth keeps the queue depth gauge current
func (api *API) updateQueueDepth(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			depth, err := api.queue.GetQueueDepth()
			if err != nil {
				continue
			}
			metrics.ExportQueueDepth.Set(float64(depth))
		}
	}
}
