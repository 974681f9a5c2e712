package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditHTTP "github.com/allisson/medbilling/internal/audit/http"
	claimsHTTP "github.com/allisson/medbilling/internal/claims/http"
	"github.com/allisson/medbilling/internal/config"
	patientsHTTP "github.com/allisson/medbilling/internal/patients/http"
)

// Server represents the HTTP API server.
type Server struct {
	db                *sql.DB
	server            *http.Server
	logger            *slog.Logger
	config            *config.Config
	metricsMiddleware gin.HandlerFunc
	patientHandler    *patientsHTTP.PatientHandler
	claimHandler      *claimsHTTP.ClaimHandler
	auditHandler      *auditHTTP.AuditEventHandler
}

// NewServer creates a new HTTP server with all route handlers.
// metricsMiddleware may be nil when metrics collection is disabled.
func NewServer(
	db *sql.DB,
	cfg *config.Config,
	logger *slog.Logger,
	metricsMiddleware gin.HandlerFunc,
	patientHandler *patientsHTTP.PatientHandler,
	claimHandler *claimsHTTP.ClaimHandler,
	auditHandler *auditHTTP.AuditEventHandler,
) *Server {
	s := &Server{
		db:                db,
		logger:            logger,
		config:            cfg,
		metricsMiddleware: metricsMiddleware,
		patientHandler:    patientHandler,
		claimHandler:      claimHandler,
		auditHandler:      auditHandler,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      s.createRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// createRouter assembles the gin router with middleware and all routes.
func (s *Server) createRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	router.Use(SecurityHeadersMiddleware())

	if s.metricsMiddleware != nil {
		router.Use(s.metricsMiddleware)
	}

	if corsMiddleware := createCORSMiddleware(s.config.CORSEnabled, s.config.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	// Health endpoints stay outside authentication so orchestrators can
	// probe them.
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if s.config.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(s.config.RateLimitRequestsPerSec, s.config.RateLimitBurst, s.logger))
	}
	v1.Use(AuthenticationMiddleware(s.config.APITokenHash, s.config.AllowPHIDisclosure, s.logger))
	v1.Use(RequestMetaMiddleware())

	v1.POST("/patients", s.patientHandler.CreateHandler)
	v1.GET("/patients", s.patientHandler.ListHandler)
	v1.GET("/patients/:id", s.patientHandler.GetHandler)
	v1.PATCH("/patients/:id", s.patientHandler.UpdateHandler)
	v1.DELETE("/patients/:id", s.patientHandler.DeleteHandler)
	v1.POST("/patients/:id/insurances", s.patientHandler.CreateInsuranceHandler)
	v1.GET("/patients/:id/insurances", s.patientHandler.ListInsurancesHandler)
	v1.GET("/patients/:id/claims", s.claimHandler.ListByPatientHandler)

	v1.POST("/claims", s.claimHandler.CreateHandler)
	v1.GET("/claims", s.claimHandler.ListHandler)
	v1.GET("/claims/:id", s.claimHandler.GetHandler)
	v1.POST("/claims/:id/transition", s.claimHandler.TransitionHandler)
	v1.GET("/claims/:id/history", s.claimHandler.HistoryHandler)
	v1.POST("/claims/:id/denials", s.claimHandler.CreateDenialHandler)
	v1.GET("/claims/:id/denials", s.claimHandler.ListDenialsHandler)
	v1.POST("/denials/:id/resolve", s.claimHandler.ResolveDenialHandler)

	v1.GET("/audit-events", s.auditHandler.ListHandler)
	v1.GET("/audit-events/:id", s.auditHandler.GetHandler)
	v1.GET("/resources/:type/:id/audit-events", s.auditHandler.ListByResourceHandler)

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness to serve traffic, checking the
// database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	status := http.StatusOK
	overall := "ready"

	if s.db == nil {
		components["database"] = "error"
		status = http.StatusServiceUnavailable
		overall = "not_ready"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			status = http.StatusServiceUnavailable
			overall = "not_ready"
		} else {
			components["database"] = "ok"
		}
	}

	c.JSON(status, gin.H{
		"status":     overall,
		"components": components,
	})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
