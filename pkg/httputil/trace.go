package httputil

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

// TraceIDKey is the context key under which the request trace ID is stored.
const TraceIDKey contextKey = "trace_id"

// HeaderTraceID is the wire header carrying the trace ID.
const HeaderTraceID = "X-Trace-ID"

// WithTraceID returns a context carrying the given trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID gets a trace ID from the request context or headers.
// This utility is in a separate package to avoid circular imports between
// pkg/http and pkg/http/handlers.
func GetTraceID(r *http.Request) string {
	if traceID, ok := r.Context().Value(TraceIDKey).(string); ok && traceID != "" {
		return traceID
	}
	return r.Header.Get(HeaderTraceID)
}

// NewTraceID generates a fresh trace ID.
func NewTraceID() string {
	return uuid.New().String()
}
