package handlers

import (
	"fmt"
	"net/http"

	"presight/pkg/errors"
	"presight/pkg/httputil"
	"presight/pkg/services"
)

// UserHandlers handles user directory HTTP requests
type UserHandlers struct {
	presence   services.PresenceService
	errHandler *errors.Handler
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(presence services.PresenceService, errHandler *errors.Handler) *UserHandlers {
	return &UserHandlers{
		presence:   presence,
		errHandler: errHandler,
	}
}

// ForgetUser handles GET /api/user/forget?userId=
func (uh *UserHandlers) ForgetUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	if err := uh.presence.ForgetUser(r.Context(), userID); err != nil {
		uh.errHandler.Handle(w, err, httputil.GetTraceID(r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"userId": fmt.Sprintf("Data about %s was forgotten", userID),
	})
}

// ListUsers handles GET /api/users/list
func (uh *UserHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := uh.presence.ListUsers(r.Context())
	if err != nil {
		uh.errHandler.Handle(w, err, httputil.GetTraceID(r))
		return
	}

	out := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		out = append(out, map[string]interface{}{
			"userId":    users[i].UserID,
			"nickname":  users[i].Nickname,
			"firstSeen": formatAPITime(&users[i].FirstSeen),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
