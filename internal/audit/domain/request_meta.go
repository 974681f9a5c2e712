package domain

// RequestMeta carries the request-scoped identity attached to audit events:
// the authenticated actor plus the client network identity extracted by the
// HTTP middleware. A zero RequestMeta is valid and means a system-initiated
// operation.
type RequestMeta struct {
	ActorID     *string
	ClientIP    *string
	ClientAgent *string
}
