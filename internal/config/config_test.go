package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Create temporary config file
	content := `
server:
  port: 9090
  host: "127.0.0.1"

editor:
  ffmpegPath: "/opt/ffmpeg/bin/ffmpeg"
  cacheTTL: "2m"

database:
  host: "testdb"
  port: 5432
  user: "testuser"
  password: "testpass"
  dbname: "testdb"
`

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Load config
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Server.Host)
	}

	if cfg.Editor.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("Expected ffmpeg path /opt/ffmpeg/bin/ffmpeg, got %s", cfg.Editor.FFmpegPath)
	}

	if cfg.Editor.CacheTTL != 2*time.Minute {
		t.Errorf("Expected cache TTL 2m, got %v", cfg.Editor.CacheTTL)
	}

	if cfg.Database.Host != "testdb" {
		t.Errorf("Expected database host testdb, got %s", cfg.Database.Host)
	}

	// Defaults fill what the file omits
	if cfg.Editor.FFprobePath != "ffprobe" {
		t.Errorf("Expected default ffprobe path, got %s", cfg.Editor.FFprobePath)
	}

	if cfg.Queue.Port != 5672 {
		t.Errorf("Expected default queue port 5672, got %d", cfg.Queue.Port)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}
