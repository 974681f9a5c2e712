package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	claimsDomain "github.com/allisson/medbilling/internal/claims/domain"
	"github.com/allisson/medbilling/internal/claims/http/dto"
)

type mockClaimUseCase struct {
	mock.Mock
}

func (m *mockClaimUseCase) Create(ctx context.Context, input *claimsDomain.CreateClaimInput, meta auditDomain.RequestMeta) (map[string]any, error) {
	args := m.Called(ctx, input, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockClaimUseCase) Get(ctx context.Context, externalRef uuid.UUID) (map[string]any, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockClaimUseCase) List(ctx context.Context, status *claimsDomain.ClaimStatus, offset, limit int) ([]map[string]any, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

func (m *mockClaimUseCase) ListByPatient(ctx context.Context, patientRef uuid.UUID) ([]map[string]any, error) {
	args := m.Called(ctx, patientRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

func (m *mockClaimUseCase) Transition(ctx context.Context, externalRef uuid.UUID, input *claimsDomain.TransitionClaimInput, meta auditDomain.RequestMeta) (map[string]any, error) {
	args := m.Called(ctx, externalRef, input, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockClaimUseCase) History(ctx context.Context, externalRef uuid.UUID) ([]map[string]any, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

func (m *mockClaimUseCase) AddDenial(ctx context.Context, claimRef uuid.UUID, input *claimsDomain.CreateDenialInput, meta auditDomain.RequestMeta) (map[string]any, error) {
	args := m.Called(ctx, claimRef, input, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockClaimUseCase) ListDenials(ctx context.Context, claimRef uuid.UUID) ([]map[string]any, error) {
	args := m.Called(ctx, claimRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

func (m *mockClaimUseCase) ResolveDenial(ctx context.Context, denialRef uuid.UUID, notes string, meta auditDomain.RequestMeta) (map[string]any, error) {
	args := m.Called(ctx, denialRef, notes, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*ClaimHandler, *mockClaimUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := new(mockClaimUseCase)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewClaimHandler(mockUseCase, logger), mockUseCase
}

func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func validCreateRequest() dto.CreateClaimRequest {
	return dto.CreateClaimRequest{
		PatientRef:        uuid.NewString(),
		ClaimType:         "professional",
		ServiceDateFrom:   "2026-08-01",
		TotalChargesCents: 125000,
		DiagnosisCodes:    []string{"E11.9"},
	}
}

func TestClaimHandler_CreateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		c, w := createTestContext(http.MethodPost, "/v1/claims", validCreateRequest())

		view := map[string]any{"claim_number": "CLM-20260810-A1B2C3", "status": "draft"}
		mockUseCase.On("Create", mock.Anything, mock.AnythingOfType("*domain.CreateClaimInput"), mock.Anything).Return(view, nil)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.ClaimResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "CLM-20260810-A1B2C3", response.Data["claim_number"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		c, w := createTestContext(http.MethodPost, "/v1/claims", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("{invalid")))

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("Error_ValidationFailure", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		req := validCreateRequest()
		req.ClaimType = ""
		c, w := createTestContext(http.MethodPost, "/v1/claims", req)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Create")
	})
}

func TestClaimHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		externalRef := uuid.New()
		c, w := createTestContext(http.MethodGet, "/v1/claims/"+externalRef.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: externalRef.String()}}

		view := map[string]any{"claim_number": "CLM-20260810-A1B2C3", "status": "submitted"}
		mockUseCase.On("Get", mock.Anything, externalRef).Return(view, nil)

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_InvalidUUID", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		c, w := createTestContext(http.MethodGet, "/v1/claims/abc", nil)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Get")
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		externalRef := uuid.New()
		c, w := createTestContext(http.MethodGet, "/v1/claims/"+externalRef.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: externalRef.String()}}

		mockUseCase.On("Get", mock.Anything, externalRef).Return(nil, claimsDomain.ErrClaimNotFound)

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestClaimHandler_ListHandler(t *testing.T) {
	t.Run("Success_NoFilter", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		c, w := createTestContext(http.MethodGet, "/v1/claims", nil)

		views := []map[string]any{{"claim_number": "CLM-20260810-A1B2C3"}}
		mockUseCase.On("List", mock.Anything, (*claimsDomain.ClaimStatus)(nil), 0, 50).Return(views, nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_StatusFilter", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		c, w := createTestContext(http.MethodGet, "/v1/claims?status=submitted", nil)

		status := claimsDomain.StatusSubmitted
		mockUseCase.On("List", mock.Anything, &status, 0, 50).Return([]map[string]any{}, nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_UnknownStatus", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		c, w := createTestContext(http.MethodGet, "/v1/claims?status=bogus", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "List")
	})
}

func TestClaimHandler_ListByPatientHandler(t *testing.T) {
	handler, mockUseCase := setupTestHandler(t)
	patientRef := uuid.New()
	c, w := createTestContext(http.MethodGet, "/v1/patients/"+patientRef.String()+"/claims", nil)
	c.Params = gin.Params{{Key: "id", Value: patientRef.String()}}

	views := []map[string]any{{"claim_number": "CLM-20260810-A1B2C3"}}
	mockUseCase.On("ListByPatient", mock.Anything, patientRef).Return(views, nil)

	handler.ListByPatientHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestClaimHandler_TransitionHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		externalRef := uuid.New()
		body := dto.TransitionClaimRequest{Status: "submitted"}
		c, w := createTestContext(http.MethodPost, "/v1/claims/"+externalRef.String()+"/transition", body)
		c.Params = gin.Params{{Key: "id", Value: externalRef.String()}}

		view := map[string]any{"status": "submitted"}
		mockUseCase.On("Transition", mock.Anything, externalRef, mock.AnythingOfType("*domain.TransitionClaimInput"), mock.Anything).Return(view, nil)

		handler.TransitionHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_UnknownStatus", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		externalRef := uuid.New()
		body := dto.TransitionClaimRequest{Status: "bogus"}
		c, w := createTestContext(http.MethodPost, "/v1/claims/"+externalRef.String()+"/transition", body)
		c.Params = gin.Params{{Key: "id", Value: externalRef.String()}}

		handler.TransitionHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Transition")
	})

	t.Run("Error_IllegalTransition", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		externalRef := uuid.New()
		body := dto.TransitionClaimRequest{Status: "paid"}
		c, w := createTestContext(http.MethodPost, "/v1/claims/"+externalRef.String()+"/transition", body)
		c.Params = gin.Params{{Key: "id", Value: externalRef.String()}}

		mockUseCase.On("Transition", mock.Anything, externalRef, mock.AnythingOfType("*domain.TransitionClaimInput"), mock.Anything).
			Return(nil, claimsDomain.ErrInvalidStatusTransition)

		handler.TransitionHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestClaimHandler_HistoryHandler(t *testing.T) {
	handler, mockUseCase := setupTestHandler(t)
	externalRef := uuid.New()
	c, w := createTestContext(http.MethodGet, "/v1/claims/"+externalRef.String()+"/history", nil)
	c.Params = gin.Params{{Key: "id", Value: externalRef.String()}}

	views := []map[string]any{{"status": "draft"}, {"status": "submitted"}}
	mockUseCase.On("History", mock.Anything, externalRef).Return(views, nil)

	handler.HistoryHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 2)
	assert.Equal(t, "draft", response.Data[0]["status"])
}

func TestClaimHandler_CreateDenialHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		externalRef := uuid.New()
		body := dto.CreateDenialRequest{
			DenialCode:        "CO-97",
			DeniedAmountCents: 50000,
			DenialDate:        "2026-08-20",
		}
		c, w := createTestContext(http.MethodPost, "/v1/claims/"+externalRef.String()+"/denials", body)
		c.Params = gin.Params{{Key: "id", Value: externalRef.String()}}

		view := map[string]any{"denial_code": "CO-97"}
		mockUseCase.On("AddDenial", mock.Anything, externalRef, mock.AnythingOfType("*domain.CreateDenialInput"), mock.Anything).Return(view, nil)

		handler.CreateDenialHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_ValidationFailure", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		externalRef := uuid.New()
		c, w := createTestContext(http.MethodPost, "/v1/claims/"+externalRef.String()+"/denials", dto.CreateDenialRequest{})
		c.Params = gin.Params{{Key: "id", Value: externalRef.String()}}

		handler.CreateDenialHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "AddDenial")
	})
}

func TestClaimHandler_ResolveDenialHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		denialRef := uuid.New()
		body := dto.ResolveDenialRequest{Notes: "paid on appeal"}
		c, w := createTestContext(http.MethodPost, "/v1/denials/"+denialRef.String()+"/resolve", body)
		c.Params = gin.Params{{Key: "id", Value: denialRef.String()}}

		view := map[string]any{"is_resolved": true}
		mockUseCase.On("ResolveDenial", mock.Anything, denialRef, "paid on appeal", mock.Anything).Return(view, nil)

		handler.ResolveDenialHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_AlreadyResolved", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		denialRef := uuid.New()
		body := dto.ResolveDenialRequest{}
		c, w := createTestContext(http.MethodPost, "/v1/denials/"+denialRef.String()+"/resolve", body)
		c.Params = gin.Params{{Key: "id", Value: denialRef.String()}}

		mockUseCase.On("ResolveDenial", mock.Anything, denialRef, "", mock.Anything).
			Return(nil, claimsDomain.ErrDenialAlreadyResolved)

		handler.ResolveDenialHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
