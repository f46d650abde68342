package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"presight/pkg/errors"
)

// apiTimeLayout is the wire format for every timestamp the API accepts and
// returns. Timestamps carry no zone and are interpreted as UTC.
const apiTimeLayout = "2006-01-02T15:04:05"

// parseDateParam reads and parses a required timestamp query parameter.
func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, errors.ValidationErrorf("MISSING_PARAMETER", "%s parameter is required", name)
	}
	t, err := time.Parse(apiTimeLayout, raw)
	if err != nil {
		return time.Time{}, errors.ValidationErrorf("INVALID_DATE", "%s must be formatted as %s", name, apiTimeLayout)
	}
	return t, nil
}

// formatAPITime renders a timestamp in the wire format, passing nil through.
func formatAPITime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(apiTimeLayout)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
