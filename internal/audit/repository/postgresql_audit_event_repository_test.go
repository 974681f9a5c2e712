package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	apperrors "github.com/allisson/medbilling/internal/errors"
)

var auditEventColumns = []string{
	"id", "event_type", "actor_id", "resource_type", "resource_id",
	"success", "details", "client_ip", "client_agent", "signature", "created_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func sampleEvent() *auditDomain.AuditEvent {
	actor := "billing-agent"
	return &auditDomain.AuditEvent{
		ID:           uuid.Must(uuid.NewV7()),
		EventType:    auditDomain.EventAccess,
		ActorID:      &actor,
		ResourceType: "patient",
		ResourceID:   uuid.NewString(),
		Success:      true,
		Details:      map[string]any{"operation": "get"},
		Signature:    []byte{0xAA, 0xBB},
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPostgreSQLAuditEventRepository_Create(t *testing.T) {
	t.Run("inserts all columns", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLAuditEventRepository(db)
		event := sampleEvent()

		detailsJSON, err := json.Marshal(event.Details)
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO audit_events`)).
			WithArgs(
				event.ID,
				string(event.EventType),
				event.ActorID,
				event.ResourceType,
				event.ResourceID,
				event.Success,
				detailsJSON,
				event.ClientIP,
				event.ClientAgent,
				event.Signature,
				event.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Create(context.Background(), event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil details insert as NULL", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLAuditEventRepository(db)
		event := sampleEvent()
		event.Details = nil

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO audit_events`)).
			WithArgs(
				event.ID,
				string(event.EventType),
				event.ActorID,
				event.ResourceType,
				event.ResourceID,
				event.Success,
				nil,
				event.ClientIP,
				event.ClientAgent,
				event.Signature,
				event.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Create(context.Background(), event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLAuditEventRepository_Get(t *testing.T) {
	t.Run("returns the event", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLAuditEventRepository(db)
		event := sampleEvent()

		detailsJSON, err := json.Marshal(event.Details)
		require.NoError(t, err)

		rows := sqlmock.NewRows(auditEventColumns).AddRow(
			event.ID, string(event.EventType), event.ActorID, event.ResourceType,
			event.ResourceID, event.Success, detailsJSON, event.ClientIP,
			event.ClientAgent, event.Signature, event.CreatedAt,
		)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).WithArgs(event.ID).WillReturnRows(rows)

		got, err := repo.Get(context.Background(), event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, event.EventType, got.EventType)
		assert.Equal(t, event.Details["operation"], got.Details["operation"])
		assert.Equal(t, event.Signature, got.Signature)
	})

	t.Run("missing event maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLAuditEventRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).WithArgs(id).WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), id)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLAuditEventRepository_ListByResource(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLAuditEventRepository(db)
	event := sampleEvent()

	rows := sqlmock.NewRows(auditEventColumns).AddRow(
		event.ID, string(event.EventType), event.ActorID, event.ResourceType,
		event.ResourceID, event.Success, nil, event.ClientIP,
		event.ClientAgent, event.Signature, event.CreatedAt,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at ASC`)).
		WithArgs("patient", event.ResourceID, 50, 0).
		WillReturnRows(rows)

	events, err := repo.ListByResource(context.Background(), "patient", event.ResourceID, 0, 50)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
	assert.Nil(t, events[0].Details)
}

func TestPostgreSQLAuditEventRepository_DeleteOlderThan(t *testing.T) {
	cutoff := time.Now().UTC().AddDate(0, 0, -30)

	t.Run("dry run counts without deleting", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLAuditEventRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM audit_events`)).
			WithArgs(cutoff).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := repo.DeleteOlderThan(context.Background(), cutoff, true)
		require.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete returns affected rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLAuditEventRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM audit_events`)).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 42))

		count, err := repo.DeleteOlderThan(context.Background(), cutoff, false)
		require.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
