package app

import (
	"fmt"

	auditHTTP "github.com/allisson/medbilling/internal/audit/http"
	auditRepository "github.com/allisson/medbilling/internal/audit/repository"
	auditService "github.com/allisson/medbilling/internal/audit/service"
	auditUseCase "github.com/allisson/medbilling/internal/audit/usecase"
)

// AuditEventRepository returns the audit event repository instance.
func (c *Container) AuditEventRepository() (auditUseCase.AuditEventRepository, error) {
	var err error
	c.auditEventRepoInit.Do(func() {
		c.auditEventRepo, err = c.initAuditEventRepository()
		if err != nil {
			c.initErrors["auditEventRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditEventRepo"]; exists {
		return nil, storedErr
	}
	return c.auditEventRepo, nil
}

// EventSigner returns the audit event signer service.
func (c *Container) EventSigner() auditService.EventSigner {
	c.eventSignerInit.Do(func() {
		c.eventSigner = auditService.NewEventSigner()
	})
	return c.eventSigner
}

// FallbackWriter returns the local fallback writer for security-critical
// audit events.
func (c *Container) FallbackWriter() auditService.FallbackWriter {
	c.fallbackWriterInit.Do(func() {
		c.fallbackWriter = auditService.NewFileFallbackWriter(c.config.AuditFallbackPath)
	})
	return c.fallbackWriter
}

// AuditEventUseCase returns the audit trail use case.
func (c *Container) AuditEventUseCase() (auditUseCase.AuditEventUseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		c.auditUseCase, err = c.initAuditEventUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// AuditEventHandler returns the audit trail HTTP handler.
func (c *Container) AuditEventHandler() (*auditHTTP.AuditEventHandler, error) {
	var err error
	c.auditHandlerInit.Do(func() {
		var useCase auditUseCase.AuditEventUseCase
		useCase, err = c.AuditEventUseCase()
		if err != nil {
			c.initErrors["auditHandler"] = err
			return
		}
		c.auditHandler = auditHTTP.NewAuditEventHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditHandler"]; exists {
		return nil, storedErr
	}
	return c.auditHandler, nil
}

// initAuditEventRepository creates the audit event repository instance.
func (c *Container) initAuditEventRepository() (auditUseCase.AuditEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit event repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return auditRepository.NewMySQLAuditEventRepository(db), nil
	case "postgres":
		return auditRepository.NewPostgreSQLAuditEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditEventUseCase creates the audit trail use case with all its dependencies.
func (c *Container) initAuditEventUseCase() (auditUseCase.AuditEventUseCase, error) {
	eventRepo, err := c.AuditEventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit event repository for audit use case: %w", err)
	}

	masterKey, err := c.EncryptionKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption key for audit use case: %w", err)
	}

	return auditUseCase.NewAuditEventUseCase(
		eventRepo,
		c.EventSigner(),
		c.FallbackWriter(),
		masterKey,
		c.Logger(),
	), nil
}
