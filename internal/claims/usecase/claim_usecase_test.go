package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	claimsDomain "github.com/allisson/medbilling/internal/claims/domain"
	"github.com/allisson/medbilling/internal/errors"
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
	"github.com/allisson/medbilling/internal/record"
)

type mockClaimRepository struct {
	mock.Mock
}

func (m *mockClaimRepository) Create(ctx context.Context, claim *claimsDomain.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *mockClaimRepository) GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*claimsDomain.Claim, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claimsDomain.Claim), args.Error(1)
}

func (m *mockClaimRepository) GetByClaimNumber(ctx context.Context, claimNumber string) (*claimsDomain.Claim, error) {
	args := m.Called(ctx, claimNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claimsDomain.Claim), args.Error(1)
}

func (m *mockClaimRepository) Update(ctx context.Context, claim *claimsDomain.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *mockClaimRepository) List(ctx context.Context, status *claimsDomain.ClaimStatus, offset, limit int) ([]*claimsDomain.Claim, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*claimsDomain.Claim), args.Error(1)
}

func (m *mockClaimRepository) ListByPatient(ctx context.Context, patientID int64) ([]*claimsDomain.Claim, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*claimsDomain.Claim), args.Error(1)
}

func (m *mockClaimRepository) AddStatusHistory(ctx context.Context, entry *claimsDomain.ClaimStatusHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockClaimRepository) ListStatusHistory(ctx context.Context, claimID int64) ([]*claimsDomain.ClaimStatusHistory, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*claimsDomain.ClaimStatusHistory), args.Error(1)
}

type mockDenialRepository struct {
	mock.Mock
}

func (m *mockDenialRepository) Create(ctx context.Context, denial *claimsDomain.ClaimDenial) error {
	args := m.Called(ctx, denial)
	return args.Error(0)
}

func (m *mockDenialRepository) GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*claimsDomain.ClaimDenial, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claimsDomain.ClaimDenial), args.Error(1)
}

func (m *mockDenialRepository) Update(ctx context.Context, denial *claimsDomain.ClaimDenial) error {
	args := m.Called(ctx, denial)
	return args.Error(0)
}

func (m *mockDenialRepository) ListByClaim(ctx context.Context, claimID int64) ([]*claimsDomain.ClaimDenial, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*claimsDomain.ClaimDenial), args.Error(1)
}

type mockPatientDirectory struct {
	mock.Mock
}

func (m *mockPatientDirectory) GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*patientsDomain.Patient, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patientsDomain.Patient), args.Error(1)
}

type mockAuditEmitter struct {
	mock.Mock
}

func (m *mockAuditEmitter) Emit(ctx context.Context, input *auditDomain.EmitEventInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// stubTxManager runs the function directly without a transaction.
type stubTxManager struct{}

func (s *stubTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestMeta() auditDomain.RequestMeta {
	actor := "user-1"
	clientIP := "203.0.113.9"
	return auditDomain.RequestMeta{
		ActorID:  &actor,
		ClientIP: &clientIP,
	}
}

func newStoredPatient() *patientsDomain.Patient {
	patient := &patientsDomain.Patient{
		Record:              record.New(nil),
		MedicalRecordNumber: "MRN-20260105-AB12",
	}
	patient.ID = 7
	return patient
}

func newStoredClaim(status claimsDomain.ClaimStatus) *claimsDomain.Claim {
	claim := &claimsDomain.Claim{
		Record:            record.New(nil),
		ClaimNumber:       "CLM-20260810-A1B2C3",
		PatientID:         7,
		ClaimType:         claimsDomain.ClaimProfessional,
		Status:            status,
		Priority:          claimsDomain.PriorityRoutine,
		ServiceDateFrom:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		TotalChargesCents: 125000,
		DiagnosisCodes:    []string{"E11.9", "I10"},
	}
	claim.ID = 3
	return claim
}

func newStoredDenial() *claimsDomain.ClaimDenial {
	denial := &claimsDomain.ClaimDenial{
		Record:            record.New(nil),
		ClaimID:           3,
		DenialCode:        "CO-97",
		DeniedAmountCents: 50000,
		DenialDate:        time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}
	denial.ID = 11
	return denial
}

func newClaimUseCase(
	claimRepo *mockClaimRepository,
	denialRepo *mockDenialRepository,
	patients *mockPatientDirectory,
	audit *mockAuditEmitter,
) ClaimUseCase {
	return NewClaimUseCase(claimRepo, denialRepo, patients, audit, &stubTxManager{})
}

func TestClaimUseCase_Create(t *testing.T) {
	ctx := context.Background()
	patient := newStoredPatient()

	input := &claimsDomain.CreateClaimInput{
		PatientRef:        patient.ExternalRef.String(),
		ClaimType:         "professional",
		ServiceDateFrom:   "2026-08-01",
		TotalChargesCents: 125000,
		DiagnosisCodes:    []string{"E11.9"},
	}

	t.Run("Success_WritesInitialHistoryEntry", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		denialRepo := &mockDenialRepository{}
		patients := &mockPatientDirectory{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(claimRepo, denialRepo, patients, audit)

		patients.On("GetByExternalRef", ctx, patient.ExternalRef).Return(patient, nil)
		claimRepo.On("Create", ctx, mock.AnythingOfType("*domain.Claim")).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*claimsDomain.Claim).ID = 3
		})
		claimRepo.On("AddStatusHistory", ctx, mock.AnythingOfType("*domain.ClaimStatusHistory")).Return(nil)
		audit.On("Emit", ctx, mock.AnythingOfType("*domain.EmitEventInput")).Return(nil)

		view, err := useCase.Create(ctx, input, newTestMeta())
		require.NoError(t, err)

		assert.Regexp(t, `^CLM-\d{8}-[A-Z0-9]{6}$`, view["claim_number"])
		assert.Equal(t, "draft", view["status"])

		historyCall := claimRepo.Calls[1]
		require.Equal(t, "AddStatusHistory", historyCall.Method)
		entry := historyCall.Arguments.Get(1).(*claimsDomain.ClaimStatusHistory)
		assert.Equal(t, int64(3), entry.ClaimID)
		assert.Equal(t, claimsDomain.StatusDraft, entry.Status)

		emitted := audit.Calls[0].Arguments.Get(1).(*auditDomain.EmitEventInput)
		assert.Equal(t, auditDomain.EventModification, emitted.EventType)
		assert.Equal(t, "create", emitted.Details["operation"])
		claimRepo.AssertExpectations(t)
		audit.AssertExpectations(t)
	})

	t.Run("RetriesOnDuplicateClaimNumber", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		denialRepo := &mockDenialRepository{}
		patients := &mockPatientDirectory{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(claimRepo, denialRepo, patients, audit)

		patients.On("GetByExternalRef", ctx, patient.ExternalRef).Return(patient, nil)
		claimRepo.On("Create", ctx, mock.AnythingOfType("*domain.Claim")).Return(claimsDomain.ErrDuplicateClaimNumber).Once()
		claimRepo.On("Create", ctx, mock.AnythingOfType("*domain.Claim")).Return(nil).Once()
		claimRepo.On("AddStatusHistory", ctx, mock.AnythingOfType("*domain.ClaimStatusHistory")).Return(nil)
		audit.On("Emit", ctx, mock.AnythingOfType("*domain.EmitEventInput")).Return(nil)

		_, err := useCase.Create(ctx, input, newTestMeta())
		require.NoError(t, err)

		claimRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("Error_InvalidInput", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		denialRepo := &mockDenialRepository{}
		patients := &mockPatientDirectory{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(claimRepo, denialRepo, patients, audit)

		_, err := useCase.Create(ctx, &claimsDomain.CreateClaimInput{}, newTestMeta())

		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		patients.AssertNotCalled(t, "GetByExternalRef")
	})

	t.Run("Error_InvalidPatientRef", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		denialRepo := &mockDenialRepository{}
		patients := &mockPatientDirectory{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(claimRepo, denialRepo, patients, audit)

		badInput := *input
		badInput.PatientRef = "not-a-uuid"

		_, err := useCase.Create(ctx, &badInput, newTestMeta())

		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		patients.AssertNotCalled(t, "GetByExternalRef")
	})

	t.Run("Error_InactivePatient", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		denialRepo := &mockDenialRepository{}
		patients := &mockPatientDirectory{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(claimRepo, denialRepo, patients, audit)

		inactive := newStoredPatient()
		inactive.IsActive = false

		withRef := *input
		withRef.PatientRef = inactive.ExternalRef.String()
		patients.On("GetByExternalRef", ctx, inactive.ExternalRef).Return(inactive, nil)

		_, err := useCase.Create(ctx, &withRef, newTestMeta())

		assert.ErrorIs(t, err, patientsDomain.ErrPatientNotFound)
		claimRepo.AssertNotCalled(t, "Create")
	})
}

func TestClaimUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		useCase := newClaimUseCase(claimRepo, &mockDenialRepository{}, &mockPatientDirectory{}, &mockAuditEmitter{})

		claim := newStoredClaim(claimsDomain.StatusSubmitted)
		claimRepo.On("GetByExternalRef", ctx, claim.ExternalRef).Return(claim, nil)

		view, err := useCase.Get(ctx, claim.ExternalRef)
		require.NoError(t, err)

		assert.Equal(t, "CLM-20260810-A1B2C3", view["claim_number"])
		assert.Equal(t, "submitted", view["status"])
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		useCase := newClaimUseCase(claimRepo, &mockDenialRepository{}, &mockPatientDirectory{}, &mockAuditEmitter{})

		ref := uuid.New()
		claimRepo.On("GetByExternalRef", ctx, ref).Return(nil, claimsDomain.ErrClaimNotFound)

		_, err := useCase.Get(ctx, ref)

		assert.ErrorIs(t, err, claimsDomain.ErrClaimNotFound)
	})
}

func TestClaimUseCase_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AppendsHistory", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(claimRepo, &mockDenialRepository{}, &mockPatientDirectory{}, audit)

		claim := newStoredClaim(claimsDomain.StatusDraft)
		claimRepo.On("GetByExternalRef", ctx, claim.ExternalRef).Return(claim, nil)
		claimRepo.On("Update", ctx, claim).Return(nil)
		claimRepo.On("AddStatusHistory", ctx, mock.AnythingOfType("*domain.ClaimStatusHistory")).Return(nil)
		audit.On("Emit", ctx, mock.AnythingOfType("*domain.EmitEventInput")).Return(nil)

		view, err := useCase.Transition(ctx, claim.ExternalRef, &claimsDomain.TransitionClaimInput{Status: "ready_to_submit"}, newTestMeta())
		require.NoError(t, err)

		assert.Equal(t, "ready_to_submit", view["status"])

		emitted := audit.Calls[0].Arguments.Get(1).(*auditDomain.EmitEventInput)
		assert.Equal(t, auditDomain.EventModification, emitted.EventType)
		assert.Equal(t, "draft", emitted.Details["from_status"])
		assert.Equal(t, "ready_to_submit", emitted.Details["to_status"])
		claimRepo.AssertExpectations(t)
	})

	t.Run("SubmissionEmitsSubmissionEvent", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(claimRepo, &mockDenialRepository{}, &mockPatientDirectory{}, audit)

		claim := newStoredClaim(claimsDomain.StatusReadyToSubmit)
		claimRepo.On("GetByExternalRef", ctx, claim.ExternalRef).Return(claim, nil)
		claimRepo.On("Update", ctx, claim).Return(nil)
		claimRepo.On("AddStatusHistory", ctx, mock.AnythingOfType("*domain.ClaimStatusHistory")).Return(nil)
		audit.On("Emit", ctx, mock.AnythingOfType("*domain.EmitEventInput")).Return(nil)

		view, err := useCase.Transition(ctx, claim.ExternalRef, &claimsDomain.TransitionClaimInput{Status: "submitted"}, newTestMeta())
		require.NoError(t, err)

		assert.Equal(t, "submitted", view["status"])
		assert.NotNil(t, claim.SubmittedDate)

		emitted := audit.Calls[0].Arguments.Get(1).(*auditDomain.EmitEventInput)
		assert.Equal(t, auditDomain.EventSubmission, emitted.EventType)
	})

	t.Run("SubmissionAbortsWhenAuditFails", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(claimRepo, &mockDenialRepository{}, &mockPatientDirectory{}, audit)

		claim := newStoredClaim(claimsDomain.StatusReadyToSubmit)
		claimRepo.On("GetByExternalRef", ctx, claim.ExternalRef).Return(claim, nil)
		audit.On("Emit", ctx, mock.AnythingOfType("*domain.EmitEventInput")).Return(errors.ErrAuditEmission)

		view, err := useCase.Transition(ctx, claim.ExternalRef, &claimsDomain.TransitionClaimInput{Status: "submitted"}, newTestMeta())

		assert.ErrorIs(t, err, errors.ErrAuditEmission)
		assert.Nil(t, view)
		claimRepo.AssertNotCalled(t, "Update")
		claimRepo.AssertNotCalled(t, "AddStatusHistory")
	})

	t.Run("Error_IllegalTransition", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(claimRepo, &mockDenialRepository{}, &mockPatientDirectory{}, audit)

		claim := newStoredClaim(claimsDomain.StatusDraft)
		claimRepo.On("GetByExternalRef", ctx, claim.ExternalRef).Return(claim, nil)

		_, err := useCase.Transition(ctx, claim.ExternalRef, &claimsDomain.TransitionClaimInput{Status: "paid"}, newTestMeta())

		assert.ErrorIs(t, err, claimsDomain.ErrInvalidStatusTransition)
		assert.Equal(t, claimsDomain.StatusDraft, claim.Status)
		audit.AssertNotCalled(t, "Emit")
		claimRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Error_InactiveClaim", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		useCase := newClaimUseCase(claimRepo, &mockDenialRepository{}, &mockPatientDirectory{}, &mockAuditEmitter{})

		claim := newStoredClaim(claimsDomain.StatusDraft)
		claim.IsActive = false
		claimRepo.On("GetByExternalRef", ctx, claim.ExternalRef).Return(claim, nil)

		_, err := useCase.Transition(ctx, claim.ExternalRef, &claimsDomain.TransitionClaimInput{Status: "cancelled"}, newTestMeta())

		assert.ErrorIs(t, err, claimsDomain.ErrClaimNotFound)
	})
}

func TestClaimUseCase_History(t *testing.T) {
	ctx := context.Background()
	claimRepo := &mockClaimRepository{}
	useCase := newClaimUseCase(claimRepo, &mockDenialRepository{}, &mockPatientDirectory{}, &mockAuditEmitter{})

	claim := newStoredClaim(claimsDomain.StatusSubmitted)
	entries := []*claimsDomain.ClaimStatusHistory{
		{ID: 1, ClaimID: claim.ID, Status: claimsDomain.StatusDraft, ChangedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)},
		{ID: 2, ClaimID: claim.ID, Status: claimsDomain.StatusSubmitted, ChangedAt: time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)},
	}
	claimRepo.On("GetByExternalRef", ctx, claim.ExternalRef).Return(claim, nil)
	claimRepo.On("ListStatusHistory", ctx, claim.ID).Return(entries, nil)

	views, err := useCase.History(ctx, claim.ExternalRef)
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, "draft", views[0]["status"])
	assert.Equal(t, "submitted", views[1]["status"])
}

func TestClaimUseCase_AddDenial(t *testing.T) {
	ctx := context.Background()

	input := &claimsDomain.CreateDenialInput{
		DenialCode:        "CO-97",
		DenialCategory:    "duplicate",
		DeniedAmountCents: 50000,
		DenialDate:        "2026-08-20",
	}

	t.Run("Success_TransitionsClaimToDenied", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		denialRepo := &mockDenialRepository{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(claimRepo, denialRepo, &mockPatientDirectory{}, audit)

		claim := newStoredClaim(claimsDomain.StatusAccepted)
		claimRepo.On("GetByExternalRef", ctx, claim.ExternalRef).Return(claim, nil)
		denialRepo.On("Create", ctx, mock.AnythingOfType("*domain.ClaimDenial")).Return(nil)
		claimRepo.On("Update", ctx, claim).Return(nil)
		claimRepo.On("AddStatusHistory", ctx, mock.AnythingOfType("*domain.ClaimStatusHistory")).Return(nil)
		audit.On("Emit", ctx, mock.AnythingOfType("*domain.EmitEventInput")).Return(nil)

		view, err := useCase.AddDenial(ctx, claim.ExternalRef, input, newTestMeta())
		require.NoError(t, err)

		assert.Equal(t, "CO-97", view["denial_code"])
		assert.Equal(t, claimsDomain.StatusDenied, claim.Status)

		emitted := audit.Calls[0].Arguments.Get(1).(*auditDomain.EmitEventInput)
		assert.Equal(t, "denial_recorded", emitted.Details["operation"])
		claimRepo.AssertExpectations(t)
	})

	t.Run("KeepsStatusWhenTransitionNotAllowed", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		denialRepo := &mockDenialRepository{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(claimRepo, denialRepo, &mockPatientDirectory{}, audit)

		claim := newStoredClaim(claimsDomain.StatusDraft)
		claimRepo.On("GetByExternalRef", ctx, claim.ExternalRef).Return(claim, nil)
		denialRepo.On("Create", ctx, mock.AnythingOfType("*domain.ClaimDenial")).Return(nil)
		audit.On("Emit", ctx, mock.AnythingOfType("*domain.EmitEventInput")).Return(nil)

		_, err := useCase.AddDenial(ctx, claim.ExternalRef, input, newTestMeta())
		require.NoError(t, err)

		assert.Equal(t, claimsDomain.StatusDraft, claim.Status)
		claimRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Error_InvalidInput", func(t *testing.T) {
		claimRepo := &mockClaimRepository{}
		useCase := newClaimUseCase(claimRepo, &mockDenialRepository{}, &mockPatientDirectory{}, &mockAuditEmitter{})

		_, err := useCase.AddDenial(ctx, uuid.New(), &claimsDomain.CreateDenialInput{}, newTestMeta())

		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		claimRepo.AssertNotCalled(t, "GetByExternalRef")
	})
}

func TestClaimUseCase_ResolveDenial(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		denialRepo := &mockDenialRepository{}
		audit := &mockAuditEmitter{}
		useCase := newClaimUseCase(&mockClaimRepository{}, denialRepo, &mockPatientDirectory{}, audit)

		denial := newStoredDenial()
		denialRepo.On("GetByExternalRef", ctx, denial.ExternalRef).Return(denial, nil)
		denialRepo.On("Update", ctx, denial).Return(nil)
		audit.On("Emit", ctx, mock.AnythingOfType("*domain.EmitEventInput")).Return(nil)

		view, err := useCase.ResolveDenial(ctx, denial.ExternalRef, "paid on appeal", newTestMeta())
		require.NoError(t, err)

		assert.Equal(t, true, view["is_resolved"])
		assert.True(t, denial.IsResolved)
		require.NotNil(t, denial.ResolutionNotes)
		assert.Equal(t, "paid on appeal", *denial.ResolutionNotes)
	})

	t.Run("Error_AlreadyResolved", func(t *testing.T) {
		denialRepo := &mockDenialRepository{}
		useCase := newClaimUseCase(&mockClaimRepository{}, denialRepo, &mockPatientDirectory{}, &mockAuditEmitter{})

		denial := newStoredDenial()
		denial.IsResolved = true
		denialRepo.On("GetByExternalRef", ctx, denial.ExternalRef).Return(denial, nil)

		_, err := useCase.ResolveDenial(ctx, denial.ExternalRef, "", newTestMeta())

		assert.ErrorIs(t, err, errors.ErrConflict)
		denialRepo.AssertNotCalled(t, "Update")
	})
}

func TestClaimUseCase_List(t *testing.T) {
	ctx := context.Background()
	claimRepo := &mockClaimRepository{}
	useCase := newClaimUseCase(claimRepo, &mockDenialRepository{}, &mockPatientDirectory{}, &mockAuditEmitter{})

	status := claimsDomain.StatusSubmitted
	claims := []*claimsDomain.Claim{newStoredClaim(claimsDomain.StatusSubmitted)}
	claimRepo.On("List", ctx, &status, 0, 50).Return(claims, nil)

	views, err := useCase.List(ctx, &status, 0, 50)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "submitted", views[0]["status"])
}

func TestClaimUseCase_ListDenials(t *testing.T) {
	ctx := context.Background()
	claimRepo := &mockClaimRepository{}
	denialRepo := &mockDenialRepository{}
	useCase := newClaimUseCase(claimRepo, denialRepo, &mockPatientDirectory{}, &mockAuditEmitter{})

	claim := newStoredClaim(claimsDomain.StatusDenied)
	claimRepo.On("GetByExternalRef", ctx, claim.ExternalRef).Return(claim, nil)
	denialRepo.On("ListByClaim", ctx, claim.ID).Return([]*claimsDomain.ClaimDenial{newStoredDenial()}, nil)

	views, err := useCase.ListDenials(ctx, claim.ExternalRef)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "CO-97", views[0]["denial_code"])
}
