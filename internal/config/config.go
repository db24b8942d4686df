package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Queue    QueueConfig
	Editor   EditorConfig
	Metrics  MetricsConfig
	Auth     AuthConfig
	Tracing  TracingConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// QueueConfig holds message queue configuration
type QueueConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Vhost    string
}

// EditorConfig holds subtitle editing configuration
type EditorConfig struct {
	FFmpegPath  string
	FFprobePath string
	TempDir     string
	WorkerCount int
	EnableCache bool
	CacheTTL    time.Duration
	LockTTL     time.Duration
}

// MetricsConfig holds metrics server configuration
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Enabled   bool
	JWTSecret string
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled        bool
	JaegerEndpoint string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.readTimeout", "30s")
	viper.SetDefault("server.writeTimeout", "30s")
	viper.SetDefault("server.shutdownTimeout", "10s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "subedit")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxConns", 25)
	viper.SetDefault("database.minConns", 5)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Storage defaults
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.accessKeyID", "minioadmin")
	viper.SetDefault("storage.secretAccessKey", "minioadmin")
	viper.SetDefault("storage.bucketName", "videos")
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.useSSL", false)

	// Queue defaults
	viper.SetDefault("queue.host", "localhost")
	viper.SetDefault("queue.port", 5672)
	viper.SetDefault("queue.user", "guest")
	viper.SetDefault("queue.password", "guest")
	viper.SetDefault("queue.vhost", "/")

	// Editor defaults
	viper.SetDefault("editor.ffmpegPath", "ffmpeg")
	viper.SetDefault("editor.ffprobePath", "ffprobe")
	viper.SetDefault("editor.tempDir", "/tmp/subedit")
	viper.SetDefault("editor.workerCount", 2)
	viper.SetDefault("editor.enableCache", true)
	viper.SetDefault("editor.cacheTTL", "5m")
	viper.SetDefault("editor.lockTTL", "10m")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9091)

	// Auth defaults
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.jwtSecret", "")

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.jaegerEndpoint", "http://localhost:14268/api/traces")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}
