package repository

import (
	"database/sql"
	"encoding/json"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	apperrors "github.com/allisson/medbilling/internal/errors"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAuditEvent reads one audit event row in column order
// id, event_type, actor_id, resource_type, resource_id, success, details,
// client_ip, client_agent, signature, created_at. Shared by the PostgreSQL
// queries; MySQL needs its own because of BINARY(16) IDs.
func scanAuditEvent(row rowScanner) (*auditDomain.AuditEvent, error) {
	var event auditDomain.AuditEvent
	var eventType string
	var detailsJSON []byte

	err := row.Scan(
		&event.ID,
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

	event.EventType = auditDomain.EventType(eventType)

	if detailsJSON != nil {
		if err := json.Unmarshal(detailsJSON, &event.Details); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit event details")
		}
	}

	return &event, nil
}

func collectAuditEvents(rows *sql.Rows) ([]*auditDomain.AuditEvent, error) {
	events := make([]*auditDomain.AuditEvent, 0)
	for rows.Next() {
		event, err := scanAuditEvent(rows)
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
