package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/medbilling/internal/crypto/domain"
	cryptoService "github.com/allisson/medbilling/internal/crypto/service"
	apperrors "github.com/allisson/medbilling/internal/errors"
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
	"github.com/allisson/medbilling/internal/record"
)

var patientRowColumns = []string{
	"id", "external_reference", "medical_record_number",
	"first_name_encrypted", "last_name_encrypted", "middle_name_encrypted",
	"social_security_number_encrypted", "date_of_birth_encrypted",
	"phone_encrypted", "email_encrypted", "emergency_contact_encrypted", "emergency_phone_encrypted",
	"address_line_1_encrypted", "address_line_2_encrypted", "city_encrypted", "state_encrypted",
	"zip_code_encrypted", "country_encrypted",
	"gender", "marital_status", "preferred_language", "is_deceased", "deceased_date",
	"preferred_communication", "allow_sms", "allow_email", "financial_class",
	"created_at", "updated_at", "created_by", "updated_by", "is_active",
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

func newTestCodec(t *testing.T) *cryptoService.FieldCodec {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	codec, err := cryptoService.NewFieldCodec(key, cryptoDomain.AESGCM)
	require.NoError(t, err)
	return codec
}

func samplePatient(t *testing.T, codec *cryptoService.FieldCodec) *patientsDomain.Patient {
	t.Helper()
	patient := &patientsDomain.Patient{
		Record:                 record.New(nil),
		MedicalRecordNumber:    patientsDomain.NewMedicalRecordNumber(time.Now()),
		PreferredCommunication: "phone",
		AllowSMS:               true,
		AllowEmail:             true,
	}
	require.NoError(t, patient.SetAttribute(codec, "first_name", "Jane"))
	require.NoError(t, patient.SetAttribute(codec, "last_name", "Doe"))
	require.NoError(t, patient.SetAttribute(codec, "date_of_birth", "1990-05-15"))
	return patient
}

func patientRow(patient *patientsDomain.Patient) *sqlmock.Rows {
	return sqlmock.NewRows(patientRowColumns).AddRow(
		int64(1), patient.ExternalRef.String(), patient.MedicalRecordNumber,
		patient.FirstName.Envelope(), patient.LastName.Envelope(), nil,
		nil, patient.DateOfBirth.Envelope(),
		nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil,
		nil, nil, nil, patient.IsDeceased, nil,
		patient.PreferredCommunication, patient.AllowSMS, patient.AllowEmail, nil,
		patient.CreatedAt, patient.UpdatedAt, nil, nil, patient.IsActive,
	)
}

func TestPostgreSQLPatientRepository_Create(t *testing.T) {
	codec := newTestCodec(t)

	t.Run("assigns the storage identity", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLPatientRepository(db)
		patient := samplePatient(t, codec)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO patients`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		require.NoError(t, repo.Create(context.Background(), patient))
		assert.Equal(t, int64(7), patient.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate MRN maps to conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLPatientRepository(db)
		patient := samplePatient(t, codec)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO patients`)).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), patient)
		assert.ErrorIs(t, err, patientsDomain.ErrDuplicateMRN)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestPostgreSQLPatientRepository_GetByExternalRef(t *testing.T) {
	codec := newTestCodec(t)

	t.Run("round-trips encrypted envelopes", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLPatientRepository(db)
		patient := samplePatient(t, codec)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE external_reference`)).
			WithArgs(patient.ExternalRef).
			WillReturnRows(patientRow(patient))

		got, err := repo.GetByExternalRef(context.Background(), patient.ExternalRef)
		require.NoError(t, err)

		firstName, err := got.GetAttribute(codec, "first_name")
		require.NoError(t, err)
		assert.Equal(t, "Jane", firstName)
		assert.False(t, got.MiddleName.IsSet())
		assert.Nil(t, got.Gender)
	})

	t.Run("missing patient maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLPatientRepository(db)
		ref := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE external_reference`)).
			WithArgs(ref).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByExternalRef(context.Background(), ref)
		assert.ErrorIs(t, err, patientsDomain.ErrPatientNotFound)
	})
}

func TestPostgreSQLPatientRepository_Update(t *testing.T) {
	codec := newTestCodec(t)

	t.Run("zero affected rows maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLPatientRepository(db)
		patient := samplePatient(t, codec)
		patient.ID = 99

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE patients SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), patient)
		assert.ErrorIs(t, err, patientsDomain.ErrPatientNotFound)
	})
}

func TestPostgreSQLPatientRepository_List(t *testing.T) {
	codec := newTestCodec(t)

	db, mock := newMockDB(t)
	repo := NewPostgreSQLPatientRepository(db)
	patient := samplePatient(t, codec)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE is_active = TRUE`)).
		WithArgs(50, 0).
		WillReturnRows(patientRow(patient))

	patients, err := repo.List(context.Background(), 0, 50)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, patient.MedicalRecordNumber, patients[0].MedicalRecordNumber)
}
