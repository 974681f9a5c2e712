package service

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"sync"
	"time"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	"github.com/allisson/medbilling/internal/errors"
)

// fileFallbackWriter appends audit events as JSON lines to a local file.
// It is the channel of last resort for security-critical events when the
// primary store is down, so writes are synchronous and fsynced.
type fileFallbackWriter struct {
	path string
	mu   sync.Mutex
}

// NewFileFallbackWriter creates a fallback writer appending to path.
// The file is created on first write if it does not exist.
func NewFileFallbackWriter(path string) FallbackWriter {
	return &fileFallbackWriter{path: path}
}

// fallbackEntry is the on-disk shape of a fallen-back event. The primary
// failure is recorded so operators can correlate the outage, and the
// signature is base64 so the line stays valid JSON.
type fallbackEntry struct {
	WrittenAt    string         `json:"written_at"`
	PrimaryError string         `json:"primary_error"`
	ID           string         `json:"id"`
	EventType    string         `json:"event_type"`
	ActorID      *string        `json:"actor_id"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Success      bool           `json:"success"`
	Details      map[string]any `json:"details"`
	ClientIP     *string        `json:"client_ip"`
	ClientAgent  *string        `json:"client_agent"`
	Signature    string         `json:"signature"`
	CreatedAt    string         `json:"created_at"`
}

// Write appends the event to the fallback file. The file is opened in
// append-only mode and synced before returning, so a successful return means
// the event is durable.
func (f *fileFallbackWriter) Write(event *auditDomain.AuditEvent, cause error) error {
	entry := fallbackEntry{
		WrittenAt:    time.Now().UTC().Format(time.RFC3339Nano),
		ID:           event.ID.String(),
		EventType:    string(event.EventType),
		ActorID:      event.ActorID,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		Success:      event.Success,
		Details:      event.Details,
		ClientIP:     event.ClientIP,
		ClientAgent:  event.ClientAgent,
		Signature:    base64.StdEncoding.EncodeToString(event.Signature),
		CreatedAt:    event.CreatedAt.Format(time.RFC3339Nano),
	}
	if cause != nil {
		entry.PrimaryError = cause.Error()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "failed to marshal fallback audit entry")
	}
	line = append(line, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return errors.Wrap(err, "failed to open audit fallback file")
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := file.Write(line); err != nil {
		return errors.Wrap(err, "failed to append audit fallback entry")
	}
	if err := file.Sync(); err != nil {
		return errors.Wrap(err, "failed to sync audit fallback file")
	}

	return nil
}
