package httputil

import (
	"context"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
)

// Principal identifies the authenticated caller of an API request.
type Principal struct {
	// Name is the configured service credential name.
	Name string
	// PHIAllowed reports whether this caller may request unredacted PHI
	// via include_phi.
	PHIAllowed bool
}

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// requestMetaKey is a context key type for storing request audit metadata.
type requestMetaKey struct{}

// WithPrincipal stores the authenticated principal in the context.
// Called by the authentication middleware after token verification.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (principal, true) if present, or (nil, false) if no principal was set.
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*Principal)
	return principal, ok
}

// WithRequestMeta stores request audit metadata in the context.
// Called by the audit middleware after extracting client IP and agent.
func WithRequestMeta(ctx context.Context, meta auditDomain.RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// GetRequestMeta retrieves request audit metadata from the context.
// Returns the zero value when the audit middleware did not run.
func GetRequestMeta(ctx context.Context) auditDomain.RequestMeta {
	meta, ok := ctx.Value(requestMetaKey{}).(auditDomain.RequestMeta)
	if !ok {
		return auditDomain.RequestMeta{}
	}
	return meta
}
