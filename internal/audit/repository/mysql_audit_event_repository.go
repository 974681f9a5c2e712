package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	"github.com/allisson/medbilling/internal/database"
	apperrors "github.com/allisson/medbilling/internal/errors"
)

// MySQLAuditEventRepository implements AuditEvent persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAuditEventRepository struct {
	db *sql.DB
}

// Create inserts a new AuditEvent using BINARY(16) for the UUID.
// Handles nil details as database NULL. Events are insert-only.
func (m *MySQLAuditEventRepository) Create(ctx context.Context, event *auditDomain.AuditEvent) error {
	querier := database.GetTx(ctx, m.db)

	var detailsJSON []byte
	var err error

	if event.Details != nil {
		detailsJSON, err = json.Marshal(event.Details)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit event details")
		}
	}

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit event id")
	}

	query := `INSERT INTO audit_events (id, event_type, actor_id, resource_type, resource_id, success, details, client_ip, client_agent, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit event")
	}

	return nil
}

// Get retrieves a single audit event by ID. UUIDs are stored as BINARY(16)
// and must be marshaled/unmarshaled. Returns ErrEventNotFound if no event matches.
func (m *MySQLAuditEventRepository) Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal audit event id")
	}

	query := `SELECT id, event_type, actor_id, resource_type, resource_id, success, details, client_ip, client_agent, signature, created_at
			  FROM audit_events
			  WHERE id = ?`

	event, err := scanMySQLAuditEvent(querier.QueryRowContext(ctx, query, idBinary))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, auditDomain.ErrEventNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get audit event")
	}

	return event, nil
}

// List retrieves audit events ordered by created_at descending (newest first)
// with pagination and optional inclusive time-based filtering. The WHERE
// clause is built dynamically because MySQL lacks typed NULL placeholders.
func (m *MySQLAuditEventRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, event_type, actor_id, resource_type, resource_id, success, details, client_ip, client_agent, signature, created_at
			  FROM audit_events`
	args := make([]any, 0, 4)

	switch {
	case createdAtFrom != nil && createdAtTo != nil:
		query += ` WHERE created_at >= ? AND created_at <= ?`
		args = append(args, *createdAtFrom, *createdAtTo)
	case createdAtFrom != nil:
		query += ` WHERE created_at >= ?`
		args = append(args, *createdAtFrom)
	case createdAtTo != nil:
		query += ` WHERE created_at <= ?`
		args = append(args, *createdAtTo)
	}

	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectMySQLAuditEvents(rows)
}

// ListByResource retrieves the audit timeline for a single resource ordered
// by created_at ascending (oldest first).
func (m *MySQLAuditEventRepository) ListByResource(
	ctx context.Context,
	resourceType, resourceID string,
	offset, limit int,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, event_type, actor_id, resource_type, resource_id, success, details, client_ip, client_agent, signature, created_at
			  FROM audit_events
			  WHERE resource_type = ? AND resource_id = ?
			  ORDER BY created_at ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, resourceType, resourceID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events by resource")
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectMySQLAuditEvents(rows)
}

// DeleteOlderThan removes audit events created before the specified timestamp.
// When dryRun is true, returns count via SELECT COUNT(*) without deletion.
// When false, executes DELETE and returns affected rows.
func (m *MySQLAuditEventRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		query := `SELECT COUNT(*) FROM audit_events WHERE created_at < ?`
		var count int64
		err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit events")
		}
		return count, nil
	}

	query := `DELETE FROM audit_events WHERE created_at < ?`
	result, err := querier.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit events")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}

	return count, nil
}

// scanMySQLAuditEvent reads one audit event row with a BINARY(16) id column.
func scanMySQLAuditEvent(row rowScanner) (*auditDomain.AuditEvent, error) {
	var event auditDomain.AuditEvent
	var idBinary []byte
	var eventType string
	var detailsJSON []byte

	err := row.Scan(
		&idBinary,
		&eventType,
		&event.ActorID,
		&event.ResourceType,
		&event.ResourceID,
		&event.Success,
		&detailsJSON,
		&event.ClientIP,
		&event.ClientAgent,
		&event.Signature,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := event.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit event id")
	}

	event.EventType = auditDomain.EventType(eventType)

	if detailsJSON != nil {
		if err := json.Unmarshal(detailsJSON, &event.Details); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit event details")
		}
	}

	return &event, nil
}

func collectMySQLAuditEvents(rows *sql.Rows) ([]*auditDomain.AuditEvent, error) {
	events := make([]*auditDomain.AuditEvent, 0)
	for rows.Next() {
		event, err := scanMySQLAuditEvent(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit events")
	}

	return events, nil
}

// NewMySQLAuditEventRepository creates a new MySQL AuditEvent repository.
func NewMySQLAuditEventRepository(db *sql.DB) *MySQLAuditEventRepository {
	return &MySQLAuditEventRepository{db: db}
}
