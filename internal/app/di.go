// Package app provides dependency injection container for assembling application components.
package app

import (
	"database/sql"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	auditHTTP "github.com/allisson/medbilling/internal/audit/http"
	auditService "github.com/allisson/medbilling/internal/audit/service"
	auditUseCase "github.com/allisson/medbilling/internal/audit/usecase"
	claimsHTTP "github.com/allisson/medbilling/internal/claims/http"
	claimsUseCase "github.com/allisson/medbilling/internal/claims/usecase"
	"github.com/allisson/medbilling/internal/config"
	cryptoService "github.com/allisson/medbilling/internal/crypto/service"
	"github.com/allisson/medbilling/internal/database"
	"github.com/allisson/medbilling/internal/http"
	"github.com/allisson/medbilling/internal/metrics"
	patientsHTTP "github.com/allisson/medbilling/internal/patients/http"
	patientsUseCase "github.com/allisson/medbilling/internal/patients/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Crypto
	encryptionKey []byte
	fieldCodec    *cryptoService.FieldCodec
	kmsService    cryptoService.KMSService

	// Audit
	auditEventRepo auditUseCase.AuditEventRepository
	eventSigner    auditService.EventSigner
	fallbackWriter auditService.FallbackWriter
	auditUseCase   auditUseCase.AuditEventUseCase
	auditHandler   *auditHTTP.AuditEventHandler

	// Patients
	patientRepo    patientsUseCase.PatientRepository
	insuranceRepo  patientsUseCase.InsuranceRepository
	patientUseCase patientsUseCase.PatientUseCase
	patientHandler *patientsHTTP.PatientHandler

	// Claims
	claimRepo    claimsUseCase.ClaimRepository
	denialRepo   claimsUseCase.DenialRepository
	claimUseCase claimsUseCase.ClaimUseCase
	claimHandler *claimsHTTP.ClaimHandler

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	encryptionKeyInit   sync.Once
	fieldCodecInit      sync.Once
	kmsServiceInit      sync.Once
	auditEventRepoInit  sync.Once
	eventSignerInit     sync.Once
	fallbackWriterInit  sync.Once
	auditUseCaseInit    sync.Once
	auditHandlerInit    sync.Once
	patientRepoInit     sync.Once
	insuranceRepoInit   sync.Once
	patientUseCaseInit  sync.Once
	patientHandlerInit  sync.Once
	claimRepoInit       sync.Once
	denialRepoInit      sync.Once
	claimUseCaseInit    sync.Once
	claimHandlerInit    sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider, or nil when
// metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API HTTP server with all its dependencies.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics
// are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Close releases container resources.
func (c *Container) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// initTxManager creates the transaction manager.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	patientHandler, err := c.PatientHandler()
	if err != nil {
		return nil, err
	}

	claimHandler, err := c.ClaimHandler()
	if err != nil {
		return nil, err
	}

	auditHandler, err := c.AuditEventHandler()
	if err != nil {
		return nil, err
	}

	var metricsMiddleware gin.HandlerFunc
	if provider, err := c.MetricsProvider(); err != nil {
		return nil, err
	} else if provider != nil {
		metricsMiddleware = metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace)
	}

	return http.NewServer(db, c.config, c.Logger(), metricsMiddleware, patientHandler, claimHandler, auditHandler), nil
}

// initMetricsServer creates the Prometheus metrics server.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
