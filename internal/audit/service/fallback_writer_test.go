package service

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	"github.com/allisson/medbilling/internal/errors"
)

func TestFileFallbackWriter(t *testing.T) {
	t.Run("appends events as JSON lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fallback.log")
		writer := NewFileFallbackWriter(path)

		first := testEvent()
		second := testEvent()
		second.EventType = auditDomain.EventLogin

		require.NoError(t, writer.Write(first, errors.New("connection refused")))
		require.NoError(t, writer.Write(second, nil))

		file, err := os.Open(path)
		require.NoError(t, err)
		defer func() {
			_ = file.Close()
		}()

		var entries []fallbackEntry
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			var entry fallbackEntry
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
			entries = append(entries, entry)
		}
		require.NoError(t, scanner.Err())

		require.Len(t, entries, 2)
		assert.Equal(t, first.ID.String(), entries[0].ID)
		assert.Equal(t, "connection refused", entries[0].PrimaryError)
		assert.Equal(t, string(auditDomain.EventLogin), entries[1].EventType)
		assert.Empty(t, entries[1].PrimaryError)
	})

	t.Run("round-trips event fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fallback.log")
		writer := NewFileFallbackWriter(path)

		event := testEvent()
		event.Signature = []byte{0x01, 0x02, 0x03}
		require.NoError(t, writer.Write(event, nil))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var entry fallbackEntry
		require.NoError(t, json.Unmarshal(data, &entry))
		assert.Equal(t, *event.ActorID, *entry.ActorID)
		assert.Equal(t, event.ResourceType, entry.ResourceType)
		assert.Equal(t, event.Success, entry.Success)
		assert.Equal(t, "AQID", entry.Signature)

		created, err := time.Parse(time.RFC3339Nano, entry.CreatedAt)
		require.NoError(t, err)
		assert.Equal(t, event.CreatedAt, created)
	})

	t.Run("errors when the path is not writable", func(t *testing.T) {
		writer := NewFileFallbackWriter(filepath.Join(t.TempDir(), "missing", "fallback.log"))
		err := writer.Write(&auditDomain.AuditEvent{ID: uuid.Must(uuid.NewV7())}, nil)
		assert.Error(t, err)
	})
}
