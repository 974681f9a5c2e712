// Package http provides HTTP handlers for audit trail queries. The trail is
// append-only; the API surface is read-only.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/medbilling/internal/audit/http/dto"
	auditUseCase "github.com/allisson/medbilling/internal/audit/usecase"
	"github.com/allisson/medbilling/internal/httputil"
)

// AuditEventHandler handles HTTP requests for audit trail queries.
type AuditEventHandler struct {
	auditEventUseCase auditUseCase.AuditEventUseCase
	logger            *slog.Logger
}

// NewAuditEventHandler creates a new audit event handler with required dependencies.
func NewAuditEventHandler(
	auditEventUseCase auditUseCase.AuditEventUseCase,
	logger *slog.Logger,
) *AuditEventHandler {
	return &AuditEventHandler{
		auditEventUseCase: auditEventUseCase,
		logger:            logger,
	}
}

// ListHandler retrieves audit events with pagination support and optional
// time-based filtering.
// GET /v1/audit-events?offset=0&limit=50&created_at_from=2026-02-01T00:00:00Z&created_at_to=2026-02-14T23:59:59Z
// Returns 200 OK with events ordered by created_at descending (newest
// first). Accepts optional created_at_from and created_at_to query
// parameters in RFC3339 format. Timestamps are converted to UTC. Both
// boundaries are inclusive (>= and <=).
func (h *AuditEventHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var createdAtFrom *time.Time
	if fromStr := c.Query("created_at_from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("invalid created_at_from format: must be RFC3339 (e.g., 2026-02-01T00:00:00Z)"),
				h.logger)
			return
		}
		utcTime := parsed.UTC()
		createdAtFrom = &utcTime
	}

	var createdAtTo *time.Time
	if toStr := c.Query("created_at_to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("invalid created_at_to format: must be RFC3339 (e.g., 2026-02-14T23:59:59Z)"),
				h.logger)
			return
		}
		utcTime := parsed.UTC()
		createdAtTo = &utcTime
	}

	if createdAtFrom != nil && createdAtTo != nil && createdAtFrom.After(*createdAtTo) {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("created_at_from must be before or equal to created_at_to"),
			h.logger)
		return
	}

	events, err := h.auditEventUseCase.List(c.Request.Context(), offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEventsToListResponse(events))
}

// GetHandler retrieves a single audit event by ID.
// GET /v1/audit-events/:id
// Returns 200 OK with the event.
func (h *AuditEventHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid audit event ID: must be a UUID"), h.logger)
		return
	}

	event, err := h.auditEventUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEventToResponse(event))
}

// ListByResourceHandler retrieves one resource's audit timeline.
// GET /v1/resources/:type/:id/audit-events?offset=0&limit=50
// Returns 200 OK with events ordered oldest first, so the timeline reads
// top to bottom.
func (h *AuditEventHandler) ListByResourceHandler(c *gin.Context) {
	resourceType := c.Param("type")
	resourceID := c.Param("id")
	if resourceType == "" || resourceID == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("resource type and ID are required"), h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	events, err := h.auditEventUseCase.ListByResource(c.Request.Context(), resourceType, resourceID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEventsToListResponse(events))
}
