package logger

import "context"

// contextKey is an unexported type for values this package stashes in
// request contexts.
type contextKey int

const requestIDKey contextKey = iota

// ContextWithRequestID tags ctx with the request ID so lower layers,
// the GORM trace logger in particular, can correlate their output with
// the HTTP request log.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from ctx, or "" when absent.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
