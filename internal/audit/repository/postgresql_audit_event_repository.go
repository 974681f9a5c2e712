// Package repository implements audit event persistence for PostgreSQL and MySQL.
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

// PostgreSQLAuditEventRepository implements AuditEvent persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAuditEventRepository struct {
	db *sql.DB
}

// Create inserts a new AuditEvent. Uses transaction support via database.GetTx().
// Handles nil details as database NULL. Events are insert-only; there is no
// update path anywhere in this package.
func (p *PostgreSQLAuditEventRepository) Create(ctx context.Context, event *auditDomain.AuditEvent) error {
	querier := database.GetTx(ctx, p.db)

	var detailsJSON []byte
	var err error

	if event.Details != nil {
		detailsJSON, err = json.Marshal(event.Details)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit event details")
		}
	}

	query := `INSERT INTO audit_events (id, event_type, actor_id, resource_type, resource_id, success, details, client_ip, client_agent, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = querier.ExecContext(
		ctx,
		query,
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
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit event")
	}

	return nil
}

// Get retrieves a single audit event by ID.
// Returns ErrEventNotFound if no event matches.
func (p *PostgreSQLAuditEventRepository) Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, event_type, actor_id, resource_type, resource_id, success, details, client_ip, client_agent, signature, created_at
			  FROM audit_events
			  WHERE id = $1`

	event, err := scanAuditEvent(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, auditDomain.ErrEventNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get audit event")
	}

	return event, nil
}

// List retrieves audit events ordered by created_at descending (newest first)
// with pagination and optional inclusive time-based filtering. All timestamps
// are expected in UTC. Returns empty slice if no events found.
func (p *PostgreSQLAuditEventRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, event_type, actor_id, resource_type, resource_id, success, details, client_ip, client_agent, signature, created_at
			  FROM audit_events
			  WHERE ($1::timestamptz IS NULL OR created_at >= $1)
			    AND ($2::timestamptz IS NULL OR created_at <= $2)
			  ORDER BY created_at DESC
			  LIMIT $3 OFFSET $4`

	rows, err := querier.QueryContext(ctx, query, createdAtFrom, createdAtTo, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectAuditEvents(rows)
}

// ListByResource retrieves the audit timeline for a single resource ordered
// by created_at ascending (oldest first), so the result reads as the
// resource's history. Returns empty slice if no events found.
func (p *PostgreSQLAuditEventRepository) ListByResource(
	ctx context.Context,
	resourceType, resourceID string,
	offset, limit int,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, event_type, actor_id, resource_type, resource_id, success, details, client_ip, client_agent, signature, created_at
			  FROM audit_events
			  WHERE resource_type = $1 AND resource_id = $2
			  ORDER BY created_at ASC
			  LIMIT $3 OFFSET $4`

	rows, err := querier.QueryContext(ctx, query, resourceType, resourceID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events by resource")
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectAuditEvents(rows)
}

// DeleteOlderThan removes audit events created before the specified timestamp.
// When dryRun is true, returns count via SELECT COUNT(*) without deletion.
// When false, executes DELETE and returns affected rows. All timestamps are
// expected in UTC.
func (p *PostgreSQLAuditEventRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		query := `SELECT COUNT(*) FROM audit_events WHERE created_at < $1`
		var count int64
		err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit events")
		}
		return count, nil
	}

	query := `DELETE FROM audit_events WHERE created_at < $1`
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

// NewPostgreSQLAuditEventRepository creates a new PostgreSQL AuditEvent repository.
func NewPostgreSQLAuditEventRepository(db *sql.DB) *PostgreSQLAuditEventRepository {
	return &PostgreSQLAuditEventRepository{db: db}
}
