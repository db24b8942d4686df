package storage

import (
	"testing"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filePath string
		wantType string
	}{
		{"video.mp4", "video/mp4"},
		{"video.m4v", "video/mp4"},
		{"video.mov", "video/quicktime"},
		{"video.avi", "video/x-msvideo"},
		{"video.mkv", "video/x-matroska"},
		{"video.webm", "video/webm"},
		{"video.wmv", "video/x-ms-wmv"},
		{"video.flv", "video/x-flv"},
		{"subs.srt", "application/x-subrip"},
		{"subs.vtt", "text/vtt"},
		{"subs.ass", "text/plain"},
		{"subs.ssa", "text/plain"},
		{"unknown.xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filePath, func(t *testing.T) {
			contentType := getContentType(tt.filePath)
			if contentType != tt.wantType {
				t.Errorf("getContentType(%q) = %q, want %q", tt.filePath, contentType, tt.wantType)
			}
		})
	}
}
