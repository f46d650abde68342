package http

import (
	"net/http"

	"presight/pkg/httputil"
)

// TraceMiddleware assigns every request a trace ID, honoring one supplied by
// the caller, and echoes it back in the response headers.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(httputil.HeaderTraceID)
		if traceID == "" {
			traceID = httputil.NewTraceID()
		}

		ctx := httputil.WithTraceID(r.Context(), traceID)
		w.Header().Set(httputil.HeaderTraceID, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
