package models

import (
	"database/sql/driver"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"
)

// Video represents a video container registered with the system
type Video struct {
	ID          string    `json:"id" db:"id"`
	Filename    string    `json:"filename" db:"filename"`
	OriginalURL string    `json:"original_url" db:"original_url"`
	Size        int64     `json:"size" db:"size"`
	Duration    float64   `json:"duration" db:"duration"`
	Format      string    `json:"format" db:"format"`
	Metadata    Metadata  `json:"metadata" db:"metadata"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Metadata holds additional container metadata
type Metadata map[string]interface{}

// Value implements driver.Valuer for database storage
func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database retrieval
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = make(Metadata)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// VideoStatus constants
const (
	VideoStatusReady     = "ready"
	VideoStatusExporting = "exporting"
	VideoStatusFailed    = "failed"
)

// Container extensions the editor accepts as input
var containerExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mkv":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
}

// IsContainerFile reports whether the filename has a recognized video
// container extension.
func IsContainerFile(filename string) bool {
	return containerExtensions[strings.ToLower(filepath.Ext(filename))]
}
