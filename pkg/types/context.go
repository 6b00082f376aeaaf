package types

// ContextKey is the type for context values set by server middleware and
// read by telemetry.
type ContextKey string

const (
	ContextKeyUserID        ContextKey = "user_id"
	ContextKeySessionID     ContextKey = "session_id"
	ContextKeyRequestSource ContextKey = "request_source"
)
