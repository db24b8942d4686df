package models

import "time"

// Export represents a remuxed output container produced by a job
type Export struct {
	ID            string    `json:"id" db:"id"`
	JobID         string    `json:"job_id" db:"job_id"`
	VideoID       string    `json:"video_id" db:"video_id"`
	Filename      string    `json:"filename" db:"filename"`
	Format        string    `json:"format" db:"format"`
	Size          int64     `json:"size" db:"size"`
	Duration      float64   `json:"duration" db:"duration"`
	SubtitleCount int       `json:"subtitle_count" db:"subtitle_count"`
	URL           string    `json:"url" db:"url"`
	Path          string    `json:"path" db:"path"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Extraction represents a subtitle file pulled out of a container
type Extraction struct {
	ID        string    `json:"id" db:"id"`
	VideoID   string    `json:"video_id" db:"video_id"`
	Track     int       `json:"track" db:"track"`
	Language  string    `json:"language" db:"language"`
	Format    string    `json:"format" db:"format"`
	Size      int64     `json:"size" db:"size"`
	URL       string    `json:"url" db:"url"`
	Path      string    `json:"path" db:"path"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
