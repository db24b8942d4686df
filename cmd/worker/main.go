package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"subedit/internal/cache"
	"subedit/internal/config"
	"subedit/internal/database"
	"subedit/internal/editor"
	"subedit/internal/ffmpeg"
	"subedit/internal/logging"
	"subedit/internal/metrics"
	"subedit/internal/queue"
	"subedit/internal/storage"
	"subedit/internal/tracing"
	"subedit/internal/webhook"
	"subedit/pkg/models"
)

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

	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer("subedit-worker", cfg.Tracing.JaegerEndpoint)
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
		log.Fatalf("FFmpeg tools not found: %v", err)
	}

	if err := os.MkdirAll(cfg.Editor.TempDir, 0755); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}

	webhooks := webhook.NewService(repo)
	svc := editor.NewService(cfg.Editor, tool, stor, repo, redisCache, webhooks, log)

	workerLog := log.WithWorkerID(svc.WorkerID())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go webhooks.RetryWorker(ctx)

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsServer.Start(); err != nil {
				workerLog.WithError(err).Errorf("Metrics server failed")
			}
		}()
		defer metricsServer.Shutdown(context.Background())
	}

	metrics.WorkerActive.Inc()
	defer metrics.WorkerActive.Dec()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		workerLog.Infof("Shutting down worker...")
		cancel()
	}()

	jobHandler := func(job *models.Job) error {
		jobLog := workerLog.WithJobID(job.ID).WithVideoID(job.VideoID)
		jobLog.Infof("Processing export job")

		if err := svc.ProcessJob(ctx, job); err != nil {
			jobLog.WithError(err).Errorf("Export job failed")

			// Retry with backoff; the job lands in the DLQ once the retry
			// budget is exhausted. The count travels in the message body, so
			// bump it before republishing.
			retry := job.RetryCount
			job.RetryCount++
			if pubErr := q.PublishToRetryQueue(ctx, job, retry); pubErr != nil {
				jobLog.WithError(pubErr).Errorf("Failed to requeue job")
				return err
			}
			return nil
		}

		metrics.WorkerJobsProcessed.WithLabelValues(svc.WorkerID()).Inc()
		jobLog.Infof("Export job completed")
		return nil
	}

	workerLog.Infof("Worker started, waiting for export jobs")
	if err := q.ConsumeJobs(ctx, jobHandler); err != nil {
		workerLog.Fatalf("Failed to consume jobs: %v", err)
	}

	<-ctx.Done()
	workerLog.Infof("Worker stopped")
}
