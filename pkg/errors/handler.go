package errors

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the JSON envelope written to the client.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"trace_id,omitempty"`
}

// ErrorDetail contains the client-visible error fields.
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Handler renders errors as HTTP responses.
type Handler struct {
	logErrors bool
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logErrors bool) *Handler {
	return &Handler{logErrors: logErrors}
}

// Handle writes the response for err. Unknown error values are wrapped as
// internal errors so the cause never leaks to the client.
func (h *Handler) Handle(w http.ResponseWriter, err error, traceID string) {
	appErr, ok := err.(*AppError)
	if !ok {
		appErr = InternalErrorf("INTERNAL_ERROR", "An unexpected error occurred").Wrap(err)
	}

	if h.logErrors && appErr.Type == InternalError {
		log.Printf("[ERROR] trace_id=%s code=%s message=%s cause=%v",
			traceID, appErr.Code, appErr.Message, appErr.Err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(&ErrorResponse{
		TraceID: traceID,
		Error: ErrorDetail{
			Type:    string(appErr.Type),
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}
