package app

import (
	"fmt"

	patientsHTTP "github.com/allisson/medbilling/internal/patients/http"
	patientsRepository "github.com/allisson/medbilling/internal/patients/repository"
	patientsUseCase "github.com/allisson/medbilling/internal/patients/usecase"
)

// PatientRepository returns the patient repository instance.
func (c *Container) PatientRepository() (patientsUseCase.PatientRepository, error) {
	var err error
	c.patientRepoInit.Do(func() {
		c.patientRepo, err = c.initPatientRepository()
		if err != nil {
			c.initErrors["patientRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["patientRepo"]; exists {
		return nil, storedErr
	}
	return c.patientRepo, nil
}

// InsuranceRepository returns the insurance repository instance.
func (c *Container) InsuranceRepository() (patientsUseCase.InsuranceRepository, error) {
	var err error
	c.insuranceRepoInit.Do(func() {
		c.insuranceRepo, err = c.initInsuranceRepository()
		if err != nil {
			c.initErrors["insuranceRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["insuranceRepo"]; exists {
		return nil, storedErr
	}
	return c.insuranceRepo, nil
}

// PatientUseCase returns the patient use case with metrics instrumentation.
func (c *Container) PatientUseCase() (patientsUseCase.PatientUseCase, error) {
	var err error
	c.patientUseCaseInit.Do(func() {
		c.patientUseCase, err = c.initPatientUseCase()
		if err != nil {
			c.initErrors["patientUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["patientUseCase"]; exists {
		return nil, storedErr
	}
	return c.patientUseCase, nil
}

// PatientHandler returns the patient HTTP handler.
func (c *Container) PatientHandler() (*patientsHTTP.PatientHandler, error) {
	var err error
	c.patientHandlerInit.Do(func() {
		var useCase patientsUseCase.PatientUseCase
		useCase, err = c.PatientUseCase()
		if err != nil {
			c.initErrors["patientHandler"] = err
			return
		}
		c.patientHandler = patientsHTTP.NewPatientHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["patientHandler"]; exists {
		return nil, storedErr
	}
	return c.patientHandler, nil
}

// initPatientRepository creates the patient repository instance.
func (c *Container) initPatientRepository() (patientsUseCase.PatientRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for patient repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return patientsRepository.NewMySQLPatientRepository(db), nil
	case "postgres":
		return patientsRepository.NewPostgreSQLPatientRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initInsuranceRepository creates the insurance repository instance.
func (c *Container) initInsuranceRepository() (patientsUseCase.InsuranceRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for insurance repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return patientsRepository.NewMySQLInsuranceRepository(db), nil
	case "postgres":
		return patientsRepository.NewPostgreSQLInsuranceRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPatientUseCase creates the patient use case with all its dependencies.
func (c *Container) initPatientUseCase() (patientsUseCase.PatientUseCase, error) {
	patientRepo, err := c.PatientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get patient repository for patient use case: %w", err)
	}

	insuranceRepo, err := c.InsuranceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get insurance repository for patient use case: %w", err)
	}

	audit, err := c.AuditEventUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for patient use case: %w", err)
	}

	codec, err := c.FieldCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get field codec for patient use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for patient use case: %w", err)
	}

	useCase := patientsUseCase.NewPatientUseCase(patientRepo, insuranceRepo, audit, codec)
	return patientsUseCase.NewPatientUseCaseWithMetrics(useCase, businessMetrics), nil
}
