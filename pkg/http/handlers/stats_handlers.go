package handlers

import (
	"net/http"

	"presight/pkg/errors"
	"presight/pkg/httputil"
	"presight/pkg/services"
)

// StatsHandlers handles presence and statistics HTTP requests
type StatsHandlers struct {
	presence   services.PresenceService
	stats      services.StatsService
	errHandler *errors.Handler
}

// NewStatsHandlers creates new stats handlers
func NewStatsHandlers(presence services.PresenceService, stats services.StatsService, errHandler *errors.Handler) *StatsHandlers {
	return &StatsHandlers{
		presence:   presence,
		stats:      stats,
		errHandler: errHandler,
	}
}

// GetUsersOnline handles GET /api/stats/users?date=&userId=
// Without userId it answers the aggregate question: how many users were
// online at the instant. With userId it answers whether that user was online,
// and if not, when they were last seen online at or before the instant.
func (sh *StatsHandlers) GetUsersOnline(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r, "date")
	if err != nil {
		sh.errHandler.Handle(w, err, httputil.GetTraceID(r))
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		count, err := sh.presence.OnlineCountAt(r.Context(), date)
		if err != nil {
			sh.errHandler.Handle(w, err, httputil.GetTraceID(r))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"usersOnline": count})
		return
	}

	status, err := sh.presence.WasOnline(r.Context(), userID, date)
	if err != nil {
		sh.errHandler.Handle(w, err, httputil.GetTraceID(r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"wasUserOnline":     status.Online,
		"nearestOnlineTime": formatAPITime(status.NearestOnlineTime),
	})
}

// GetUserTotal handles GET /api/stats/user/total?userId=&averageRequired=
// An unknown user is not an error here: the response carries null values so
// dashboards polling many users do not have to special-case 404s.
func (sh *StatsHandlers) GetUserTotal(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		sh.errHandler.Handle(w, errors.ValidationErrorf("MISSING_PARAMETER", "userId parameter is required"), httputil.GetTraceID(r))
		return
	}

	if r.URL.Query().Get("averageRequired") == "true" {
		averages, err := sh.stats.DailyAndWeeklyAverage(r.Context(), userID)
		if err != nil {
			if errors.IsNotFound(err) {
				writeJSON(w, http.StatusOK, map[string]interface{}{
					"dayAverage":  nil,
					"weekAverage": nil,
				})
				return
			}
			sh.errHandler.Handle(w, err, httputil.GetTraceID(r))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"dayAverage":  averages.Day,
			"weekAverage": averages.Week,
		})
		return
	}

	total, err := sh.stats.TotalOnlineSeconds(r.Context(), userID)
	if err != nil {
		if errors.IsNotFound(err) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"totalTime": nil})
			return
		}
		sh.errHandler.Handle(w, err, httputil.GetTraceID(r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"totalTime": total})
}
