// Package http provides the HTTP server, router assembly and middleware.
package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/mssola/useragent"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	"github.com/allisson/medbilling/internal/httputil"
)

// CustomLoggerMiddleware logs HTTP requests with structured logging. The
// query string is not logged; it can carry resource identifiers.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// SecurityHeadersMiddleware sets response headers appropriate for an API
// that serves regulated health data.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Cache-Control", "no-store")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Next()
	}
}

// RequestMetaMiddleware captures request metadata for the audit trail and
// stores it in the request context. The actor is the authenticated principal
// when one is present.
//
// Uses c.ClientIP() which handles X-Forwarded-For and X-Real-IP headers
// before falling back to the connection remote address. The user agent is
// normalized to "browser os" form so the trail does not accumulate raw
// header strings.
func RequestMetaMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var actorID *string
		if principal, ok := httputil.GetPrincipal(ctx); ok {
			name := principal.Name
			actorID = &name
		}

		var clientIP *string
		if ip := c.ClientIP(); ip != "" {
			clientIP = &ip
		}

		var clientAgent *string
		if agent := describeUserAgent(c.Request.UserAgent()); agent != "" {
			clientAgent = &agent
		}

		ctx = httputil.WithRequestMeta(ctx, auditDomain.RequestMeta{
			ActorID:     actorID,
			ClientIP:    clientIP,
			ClientAgent: clientAgent,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// describeUserAgent reduces a raw User-Agent header to "browser os".
func describeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	os := ua.OS()

	switch {
	case browser != "" && os != "":
		return browser + " " + os
	case browser != "":
		return browser
	case os != "":
		return os
	}
	return raw
}
