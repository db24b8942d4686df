package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Operation is one queued edit against a video container. Operations are
// accumulated and applied together in a single export remux.
type Operation struct {
	Kind string `json:"kind"`

	// Track is the ordinal subtitle index for remove and set_default.
	Track int `json:"track,omitempty"`

	// Subtitle source for add: a local path in CLI mode, a storage key in
	// service mode.
	SubtitlePath string `json:"subtitle_path,omitempty"`
	Language     string `json:"language,omitempty"`
	Title        string `json:"title,omitempty"`
	Default      bool   `json:"default,omitempty"`
}

// Operation kind constants
const (
	OpAdd        = "add"
	OpRemove     = "remove"
	OpSetDefault = "set_default"
)

// DisplayName returns a human-readable summary of the operation.
func (o Operation) DisplayName() string {
	switch o.Kind {
	case OpAdd:
		name := fmt.Sprintf("Add subtitle (%s)", orUnknown(o.Language))
		if o.Title != "" {
			name = fmt.Sprintf("%s: %s", name, o.Title)
		}
		if o.Default {
			name += " [default]"
		}
		return name
	case OpRemove:
		return fmt.Sprintf("Remove track %d", o.Track)
	case OpSetDefault:
		return fmt.Sprintf("Set track %d as default", o.Track)
	default:
		return o.Kind
	}
}

func orUnknown(lang string) string {
	if lang == "" {
		return "und"
	}
	return lang
}

// OperationList is an ordered set of operations stored as a JSON column.
type OperationList []Operation

// Value implements driver.Valuer for database storage
func (ol OperationList) Value() (driver.Value, error) {
	return json.Marshal(ol)
}

// Scan implements sql.Scanner for database retrieval
func (ol *OperationList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, ol)
}
