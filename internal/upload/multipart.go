package upload

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"subedit/pkg/models"
)

// Session is one chunked video upload in progress. Video containers routinely
// run to gigabytes, so the API accepts them in parts and assembles the file
// locally before probing and storing it.
type Session struct {
	ID          string        `json:"id"`
	Filename    string        `json:"filename"`
	TotalSize   int64         `json:"total_size"`
	PartSize    int64         `json:"part_size"`
	TotalParts  int           `json:"total_parts"`
	Parts       map[int]*Part `json:"parts"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	ExpiresAt   time.Time     `json:"expires_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	mu          sync.RWMutex
}

// Part is one received chunk of a session
type Part struct {
	PartNumber int       `json:"part_number"`
	Size       int64     `json:"size"`
	ETag       string    `json:"etag"`
	Uploaded   bool      `json:"uploaded"`
	UploadedAt time.Time `json:"uploaded_at,omitempty"`
}

// Manager tracks chunked upload sessions
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	tempDir  string
	partSize int64
}

const (
	DefaultPartSize   = 5 * 1024 * 1024
	MaxPartSize       = 100 * 1024 * 1024
	SessionExpiration = 24 * time.Hour

	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// NewManager creates a chunked upload manager
func NewManager(tempDir string, partSize int64) *Manager {
	if partSize == 0 {
		partSize = DefaultPartSize
	}
	if partSize > MaxPartSize {
		partSize = MaxPartSize
	}

	return &Manager{
		sessions: make(map[string]*Session),
		tempDir:  tempDir,
		partSize: partSize,
	}
}

// Initiate starts a new chunked upload for a video container
func (m *Manager) Initiate(filename string, totalSize int64) (*Session, error) {
	if !models.IsContainerFile(filename) {
		return nil, fmt.Errorf("%s is not a recognized video container", filename)
	}
	if totalSize <= 0 {
		return nil, fmt.Errorf("invalid total size %d", totalSize)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	totalParts := int((totalSize + m.partSize - 1) / m.partSize)

	session := &Session{
		ID:         id,
		Filename:   filepath.Base(filename),
		TotalSize:  totalSize,
		PartSize:   m.partSize,
		TotalParts: totalParts,
		Parts:      make(map[int]*Part),
		Status:     StatusActive,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(SessionExpiration),
	}

	if err := os.MkdirAll(m.sessionDir(id), 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	m.sessions[id] = session

	log.Info().Str("upload_id", id).Str("filename", session.Filename).
		Int64("size", totalSize).Int("parts", totalParts).
		Msg("Chunked upload initiated")

	return session, nil
}

// PutPart receives one chunk. Parts are 1-based and may arrive in any order.
func (m *Manager) PutPart(id string, partNumber int, data io.Reader) (*Part, error) {
	session, err := m.get(id)
	if err != nil {
		return nil, err
	}

	if session.Status != StatusActive {
		return nil, fmt.Errorf("upload %s is not active", id)
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("upload %s has expired", id)
	}
	if partNumber < 1 || partNumber > session.TotalParts {
		return nil, fmt.Errorf("part %d out of range, upload has %d parts", partNumber, session.TotalParts)
	}

	partPath := filepath.Join(m.sessionDir(id), fmt.Sprintf("part_%d", partNumber))
	file, err := os.Create(partPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create part file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	size, err := io.Copy(io.MultiWriter(file, hash), data)
	if err != nil {
		return nil, fmt.Errorf("failed to write part: %w", err)
	}

	part := &Part{
		PartNumber: partNumber,
		Size:       size,
		ETag:       hex.EncodeToString(hash.Sum(nil)),
		Uploaded:   true,
		UploadedAt: time.Now(),
	}

	session.mu.Lock()
	session.Parts[partNumber] = part
	session.mu.Unlock()

	return part, nil
}

// Complete assembles the received parts into the final container file and
// returns its path. The caller owns the file afterwards; Remove cleans up
// the session directory.
func (m *Manager) Complete(id string) (string, error) {
	session, err := m.get(id)
	if err != nil {
		return "", err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.Status != StatusActive {
		return "", fmt.Errorf("upload %s is not active", id)
	}

	for i := 1; i <= session.TotalParts; i++ {
		if part, ok := session.Parts[i]; !ok || !part.Uploaded {
			return "", fmt.Errorf("missing part %d", i)
		}
	}

	dir := m.sessionDir(id)
	finalPath := filepath.Join(dir, session.Filename)

	finalFile, err := os.Create(finalPath)
	if err != nil {
		return "", fmt.Errorf("failed to create final file: %w", err)
	}
	defer finalFile.Close()

	for i := 1; i <= session.TotalParts; i++ {
		partPath := filepath.Join(dir, fmt.Sprintf("part_%d", i))
		partFile, err := os.Open(partPath)
		if err != nil {
			return "", fmt.Errorf("failed to open part %d: %w", i, err)
		}

		if _, err := io.Copy(finalFile, partFile); err != nil {
			partFile.Close()
			return "", fmt.Errorf("failed to assemble part %d: %w", i, err)
		}

		partFile.Close()
		os.Remove(partPath)
	}

	session.Status = StatusCompleted
	now := time.Now()
	session.CompletedAt = &now

	log.Info().Str("upload_id", id).Str("path", finalPath).Msg("Chunked upload assembled")

	return finalPath, nil
}

// Abort cancels a session and removes its chunks
func (m *Manager) Abort(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("upload %s not found", id)
	}

	session.mu.Lock()
	session.Status = StatusAborted
	session.mu.Unlock()

	if err := os.RemoveAll(m.sessionDir(id)); err != nil {
		log.Warn().Err(err).Str("upload_id", id).Msg("Failed to remove upload directory")
	}

	delete(m.sessions, id)
	return nil
}

// Remove forgets a completed session and deletes its working directory
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	os.RemoveAll(m.sessionDir(id))
	delete(m.sessions, id)
}

// Get returns session status
func (m *Manager) Get(id string) (*Session, error) {
	return m.get(id)
}

// CleanupExpired removes sessions past their expiration. Meant to run on a
// ticker from the API main.
func (m *Manager) CleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, session := range m.sessions {
		if session.Status == StatusActive && now.After(session.ExpiresAt) {
			session.mu.Lock()
			session.Status = StatusAborted
			session.mu.Unlock()

			if err := os.RemoveAll(m.sessionDir(id)); err != nil {
				log.Warn().Err(err).Str("upload_id", id).Msg("Failed to remove expired upload")
			}
			delete(m.sessions, id)
			log.Info().Str("upload_id", id).Msg("Expired chunked upload cleaned up")
		}
	}
}

func (m *Manager) get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("upload %s not found", id)
	}
	return session, nil
}

func (m *Manager) sessionDir(id string) string {
	return filepath.Join(m.tempDir, "uploads", id)
}
