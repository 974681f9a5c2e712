package app

import (
	"fmt"

	claimsHTTP "github.com/allisson/medbilling/internal/claims/http"
	claimsRepository "github.com/allisson/medbilling/internal/claims/repository"
	claimsUseCase "github.com/allisson/medbilling/internal/claims/usecase"
)

// ClaimRepository returns the claim repository instance.
func (c *Container) ClaimRepository() (claimsUseCase.ClaimRepository, error) {
	var err error
	c.claimRepoInit.Do(func() {
		c.claimRepo, err = c.initClaimRepository()
		if err != nil {
			c.initErrors["claimRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["claimRepo"]; exists {
		return nil, storedErr
	}
	return c.claimRepo, nil
}

// DenialRepository returns the claim denial repository instance.
func (c *Container) DenialRepository() (claimsUseCase.DenialRepository, error) {
	var err error
	c.denialRepoInit.Do(func() {
		c.denialRepo, err = c.initDenialRepository()
		if err != nil {
			c.initErrors["denialRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["denialRepo"]; exists {
		return nil, storedErr
	}
	return c.denialRepo, nil
}

// ClaimUseCase returns the claim use case with metrics instrumentation.
func (c *Container) ClaimUseCase() (claimsUseCase.ClaimUseCase, error) {
	var err error
	c.claimUseCaseInit.Do(func() {
		c.claimUseCase, err = c.initClaimUseCase()
		if err != nil {
			c.initErrors["claimUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["claimUseCase"]; exists {
		return nil, storedErr
	}
	return c.claimUseCase, nil
}

// ClaimHandler returns the claim HTTP handler.
func (c *Container) ClaimHandler() (*claimsHTTP.ClaimHandler, error) {
	var err error
	c.claimHandlerInit.Do(func() {
		var useCase claimsUseCase.ClaimUseCase
		useCase, err = c.ClaimUseCase()
		if err != nil {
			c.initErrors["claimHandler"] = err
			return
		}
		c.claimHandler = claimsHTTP.NewClaimHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["claimHandler"]; exists {
		return nil, storedErr
	}
	return c.claimHandler, nil
}

// initClaimRepository creates the claim repository instance.
func (c *Container) initClaimRepository() (claimsUseCase.ClaimRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for claim repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return claimsRepository.NewMySQLClaimRepository(db), nil
	case "postgres":
		return claimsRepository.NewPostgreSQLClaimRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initDenialRepository creates the claim denial repository instance.
func (c *Container) initDenialRepository() (claimsUseCase.DenialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for denial repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return claimsRepository.NewMySQLDenialRepository(db), nil
	case "postgres":
		return claimsRepository.NewPostgreSQLDenialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initClaimUseCase creates the claim use case with all its dependencies.
func (c *Container) initClaimUseCase() (claimsUseCase.ClaimUseCase, error) {
	claimRepo, err := c.ClaimRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get claim repository for claim use case: %w", err)
	}

	denialRepo, err := c.DenialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get denial repository for claim use case: %w", err)
	}

	patientRepo, err := c.PatientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get patient repository for claim use case: %w", err)
	}

	audit, err := c.AuditEventUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for claim use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for claim use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for claim use case: %w", err)
	}

	useCase := claimsUseCase.NewClaimUseCase(claimRepo, denialRepo, patientRepo, audit, txManager)
	return claimsUseCase.NewClaimUseCaseWithMetrics(useCase, businessMetrics), nil
}
