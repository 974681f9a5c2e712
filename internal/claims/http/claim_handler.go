// Package http provides HTTP handlers for claim management operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	claimsDomain "github.com/allisson/medbilling/internal/claims/domain"
	"github.com/allisson/medbilling/internal/claims/http/dto"
	claimsUseCase "github.com/allisson/medbilling/internal/claims/usecase"
	apperrors "github.com/allisson/medbilling/internal/errors"
	"github.com/allisson/medbilling/internal/httputil"
	customValidation "github.com/allisson/medbilling/internal/validation"
)

// ClaimHandler handles HTTP requests for claim management operations.
type ClaimHandler struct {
	claimUseCase claimsUseCase.ClaimUseCase
	logger       *slog.Logger
}

// NewClaimHandler creates a new claim handler with required dependencies.
func NewClaimHandler(claimUseCase claimsUseCase.ClaimUseCase, logger *slog.Logger) *ClaimHandler {
	return &ClaimHandler{
		claimUseCase: claimUseCase,
		logger:       logger,
	}
}

// CreateHandler registers a new claim in draft status.
// POST /v1/claims
// Returns 201 Created with the claim view.
func (h *ClaimHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	meta := httputil.GetRequestMeta(c.Request.Context())
	view, err := h.claimUseCase.Create(c.Request.Context(), req.ToInput(), meta)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ClaimResponse{Data: view})
}

// GetHandler retrieves a claim view by external reference.
// GET /v1/claims/:id
// Returns 200 OK.
func (h *ClaimHandler) GetHandler(c *gin.Context) {
	externalRef, err := parseClaimRef(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	view, err := h.claimUseCase.Get(c.Request.Context(), externalRef)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ClaimResponse{Data: view})
}

// ListHandler retrieves active claims with pagination support.
// GET /v1/claims?status=submitted&offset=0&limit=50
// Returns 200 OK.
func (h *ClaimHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var status *claimsDomain.ClaimStatus
	if value := c.Query("status"); value != "" {
		parsed := claimsDomain.ClaimStatus(value)
		if !parsed.Valid() {
			err := apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("unknown claim status %q", value))
			httputil.HandleValidationErrorGin(c, err, h.logger)
			return
		}
		status = &parsed
	}

	views, err := h.claimUseCase.List(c.Request.Context(), status, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ListClaimsResponse{Data: views})
}

// ListByPatientHandler retrieves a patient's active claims.
// GET /v1/patients/:id/claims
// Returns 200 OK.
func (h *ClaimHandler) ListByPatientHandler(c *gin.Context) {
	patientRef, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid patient reference: must be a UUID"), h.logger)
		return
	}

	views, err := h.claimUseCase.ListByPatient(c.Request.Context(), patientRef)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ListClaimsResponse{Data: views})
}

// TransitionHandler moves a claim to a new status.
// POST /v1/claims/:id/transition
// Returns 200 OK with the updated claim view. Illegal transitions are
// rejected without changing the claim.
func (h *ClaimHandler) TransitionHandler(c *gin.Context) {
	externalRef, err := parseClaimRef(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.TransitionClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	meta := httputil.GetRequestMeta(c.Request.Context())
	view, err := h.claimUseCase.Transition(c.Request.Context(), externalRef, req.ToInput(), meta)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ClaimResponse{Data: view})
}

// HistoryHandler retrieves a claim's status history in chronological order.
// GET /v1/claims/:id/history
// Returns 200 OK.
func (h *ClaimHandler) HistoryHandler(c *gin.Context) {
	externalRef, err := parseClaimRef(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	views, err := h.claimUseCase.History(c.Request.Context(), externalRef)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{Data: views})
}

// CreateDenialHandler records a payer denial against a claim.
// POST /v1/claims/:id/denials
// Returns 201 Created with the denial view.
func (h *ClaimHandler) CreateDenialHandler(c *gin.Context) {
	externalRef, err := parseClaimRef(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.CreateDenialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	meta := httputil.GetRequestMeta(c.Request.Context())
	view, err := h.claimUseCase.AddDenial(c.Request.Context(), externalRef, req.ToInput(), meta)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.DenialResponse{Data: view})
}

// ListDenialsHandler retrieves a claim's denials.
// GET /v1/claims/:id/denials
// Returns 200 OK.
func (h *ClaimHandler) ListDenialsHandler(c *gin.Context) {
	externalRef, err := parseClaimRef(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	views, err := h.claimUseCase.ListDenials(c.Request.Context(), externalRef)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ListDenialsResponse{Data: views})
}

// ResolveDenialHandler marks a denial as resolved.
// POST /v1/denials/:id/resolve
// Returns 200 OK with the updated denial view.
func (h *ClaimHandler) ResolveDenialHandler(c *gin.Context) {
	denialRef, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid denial reference: must be a UUID"), h.logger)
		return
	}

	var req dto.ResolveDenialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	meta := httputil.GetRequestMeta(c.Request.Context())
	view, err := h.claimUseCase.ResolveDenial(c.Request.Context(), denialRef, req.Notes, meta)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DenialResponse{Data: view})
}

// parseClaimRef extracts and parses the external reference URL parameter.
func parseClaimRef(c *gin.Context) (uuid.UUID, error) {
	externalRef, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid claim reference: must be a UUID")
	}
	return externalRef, nil
}
