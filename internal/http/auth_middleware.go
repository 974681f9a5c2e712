package http

import (
	"log/slog"
	"strings"

	"github.com/allisson/go-pwdhash"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/medbilling/internal/errors"
	"github.com/allisson/medbilling/internal/httputil"
)

// principalName is the identity attached to requests authenticated with the
// configured service token.
const principalName = "api-client"

// AuthenticationMiddleware authenticates requests via Bearer token in the
// Authorization header. The token is verified against the configured
// Argon2id hash, so the plaintext service token is never stored server side.
//
// On success the principal is stored in the request context; downstream
// handlers read it via httputil.GetPrincipal to gate PHI disclosure.
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Token does not match the configured hash → 401 Unauthorized
func AuthenticationMiddleware(apiTokenHash string, phiAllowed bool, logger *slog.Logger) gin.HandlerFunc {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := authHeader[len(bearerPrefix):]
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ok, err := hasher.Verify([]byte(plainToken), apiTokenHash)
		if err != nil || !ok {
			logger.Debug("authentication failed: token mismatch",
				slog.String("client_ip", c.ClientIP()))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := httputil.WithPrincipal(c.Request.Context(), &httputil.Principal{
			Name:       principalName,
			PHIAllowed: phiAllowed,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
