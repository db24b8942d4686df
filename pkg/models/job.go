package models

import "time"

// Job represents an export job: a video plus the ordered operations to apply
// in one remux.
type Job struct {
	ID           string        `json:"id" db:"id"`
	VideoID      string        `json:"video_id" db:"video_id"`
	Status       string        `json:"status" db:"status"`
	Priority     int           `json:"priority" db:"priority"`
	Progress     float64       `json:"progress" db:"progress"`
	ErrorMsg     string        `json:"error_msg,omitempty" db:"error_msg"`
	RetryCount   int           `json:"retry_count" db:"retry_count"`
	WorkerID     string        `json:"worker_id,omitempty" db:"worker_id"`
	Operations   OperationList `json:"operations" db:"operations"`
	OutputFormat string        `json:"output_format" db:"output_format"`
	StartedAt    *time.Time    `json:"started_at,omitempty" db:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// JobStatus constants
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
	JobStatusCancelled  = "cancelled"
)

// JobPriority constants
const (
	JobPriorityLow    = 0
	JobPriorityNormal = 5
	JobPriorityHigh   = 10
)
