package logging

import (
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "JSON format to stdout",
			config: Config{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
			wantErr: false,
		},
		{
			name: "Console format to stderr",
			config: Config{
				Level:  "debug",
				Format: "console",
				Output: "stderr",
			},
			wantErr: false,
		},
		{
			name: "Invalid log level defaults to info",
			config: Config{
				Level:  "invalid",
				Format: "json",
				Output: "stdout",
			},
			wantErr: false,
		},
		{
			name: "Empty output defaults to stdout",
			config: Config{
				Level:  "warn",
				Format: "json",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLogger() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("Expected non-nil logger")
			}
		})
	}
}

func TestLoggerFieldHelpers(t *testing.T) {
	logger, err := NewDefaultLogger()
	if err != nil {
		t.Fatalf("NewDefaultLogger() failed: %v", err)
	}

	// Field helpers must return a new logger, not mutate the receiver
	derived := logger.WithJobID("job-1").WithVideoID("video-1").WithTrack(2)
	if derived == nil {
		t.Fatal("Expected non-nil derived logger")
	}
	if derived == logger {
		t.Error("Field helpers should return a new logger instance")
	}
}

func TestNewLoggerFileOutput(t *testing.T) {
	path := t.TempDir() + "/subedit.log"

	logger, err := NewLogger(Config{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("NewLogger() with file output failed: %v", err)
	}

	logger.Info("written to file")
}
