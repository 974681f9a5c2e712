// Package http provides HTTP handlers for patient management operations.
// Identifying attributes are encrypted at rest and redacted in responses
// unless the caller is authorized to request disclosure.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/medbilling/internal/errors"
	"github.com/allisson/medbilling/internal/httputil"
	"github.com/allisson/medbilling/internal/patients/http/dto"
	patientsUseCase "github.com/allisson/medbilling/internal/patients/usecase"
	customValidation "github.com/allisson/medbilling/internal/validation"
)

// PatientHandler handles HTTP requests for patient management operations.
type PatientHandler struct {
	patientUseCase patientsUseCase.PatientUseCase
	logger         *slog.Logger
}

// NewPatientHandler creates a new patient handler with required dependencies.
func NewPatientHandler(patientUseCase patientsUseCase.PatientUseCase, logger *slog.Logger) *PatientHandler {
	return &PatientHandler{
		patientUseCase: patientUseCase,
		logger:         logger,
	}
}

// CreateHandler registers a new patient.
// POST /v1/patients
// Returns 201 Created with the redacted patient view.
func (h *PatientHandler) CreateHandler(c *gin.Context) {
	var req dto.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	meta := httputil.GetRequestMeta(c.Request.Context())
	view, err := h.patientUseCase.Create(c.Request.Context(), req.ToInput(), meta)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.PatientResponse{Data: view})
}

// GetHandler retrieves a patient view by external reference.
// GET /v1/patients/:id?include_phi=true
// Returns 200 OK. PHI fields are redacted unless include_phi is requested
// and the caller is authorized to disclose PHI.
func (h *PatientHandler) GetHandler(c *gin.Context) {
	externalRef, err := parseExternalRef(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	includePHI, err := includePHIRequested(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	meta := httputil.GetRequestMeta(c.Request.Context())
	view, err := h.patientUseCase.Get(c.Request.Context(), externalRef, includePHI, meta)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.PatientResponse{Data: view})
}

// UpdateHandler applies a partial attribute update to a patient.
// PATCH /v1/patients/:id
// The body is a JSON object mapping attribute names to new values; a null
// value clears an encrypted attribute. Unknown attribute names reject the
// whole request. Returns 200 OK with the redacted view.
func (h *PatientHandler) UpdateHandler(c *gin.Context) {
	externalRef, err := parseExternalRef(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	meta := httputil.GetRequestMeta(c.Request.Context())
	view, err := h.patientUseCase.Update(c.Request.Context(), externalRef, updates, meta)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.PatientResponse{Data: view})
}

// DeleteHandler soft-deletes a patient.
// DELETE /v1/patients/:id
// Returns 204 No Content.
func (h *PatientHandler) DeleteHandler(c *gin.Context) {
	externalRef, err := parseExternalRef(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	meta := httputil.GetRequestMeta(c.Request.Context())
	if err := h.patientUseCase.Delete(c.Request.Context(), externalRef, meta); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ListHandler retrieves active patients with pagination support.
// GET /v1/patients?offset=0&limit=50
// Returns 200 OK with redacted views. Listings never disclose PHI.
func (h *PatientHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	views, err := h.patientUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ListPatientsResponse{Data: views})
}

// CreateInsuranceHandler attaches an insurance policy to a patient.
// POST /v1/patients/:id/insurances
// Returns 201 Created with the redacted policy view.
func (h *PatientHandler) CreateInsuranceHandler(c *gin.Context) {
	externalRef, err := parseExternalRef(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.CreateInsuranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	meta := httputil.GetRequestMeta(c.Request.Context())
	view, err := h.patientUseCase.AddInsurance(c.Request.Context(), externalRef, req.ToInput(), meta)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.InsuranceResponse{Data: view})
}

// ListInsurancesHandler retrieves a patient's active insurance policies.
// GET /v1/patients/:id/insurances?include_phi=true
// Returns 200 OK.
func (h *PatientHandler) ListInsurancesHandler(c *gin.Context) {
	externalRef, err := parseExternalRef(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	includePHI, err := includePHIRequested(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	meta := httputil.GetRequestMeta(c.Request.Context())
	views, err := h.patientUseCase.ListInsurance(c.Request.Context(), externalRef, includePHI, meta)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ListInsurancesResponse{Data: views})
}

// parseExternalRef extracts and parses the external reference URL parameter.
func parseExternalRef(c *gin.Context) (uuid.UUID, error) {
	externalRef, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid patient reference: must be a UUID")
	}
	return externalRef, nil
}

// includePHIRequested reports whether the caller asked for unredacted PHI.
// Requesting disclosure without authorization fails with ErrForbidden rather
// than silently degrading to a redacted view.
func includePHIRequested(c *gin.Context) (bool, error) {
	if c.Query("include_phi") != "true" {
		return false, nil
	}

	principal, ok := httputil.GetPrincipal(c.Request.Context())
	if !ok {
		return false, apperrors.ErrUnauthorized
	}
	if !principal.PHIAllowed {
		return false, apperrors.Wrap(apperrors.ErrForbidden, "phi disclosure is not permitted for this credential")
	}
	return true, nil
}
