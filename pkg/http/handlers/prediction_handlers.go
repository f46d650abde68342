package handlers

import (
	"net/http"
	"strconv"

	"presight/pkg/errors"
	"presight/pkg/httputil"
	"presight/pkg/services"
)

// PredictionHandlers handles prediction HTTP requests
type PredictionHandlers struct {
	prediction services.PredictionService
	errHandler *errors.Handler
}

// NewPredictionHandlers creates new prediction handlers
func NewPredictionHandlers(prediction services.PredictionService, errHandler *errors.Handler) *PredictionHandlers {
	return &PredictionHandlers{
		prediction: prediction,
		errHandler: errHandler,
	}
}

// Predict handles GET /api/predictions/users?date=&userId=&tolerance=
// Without userId it predicts the online-user count for the instant. With
// userId and tolerance it predicts whether that user will be online.
func (ph *PredictionHandlers) Predict(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r, "date")
	if err != nil {
		ph.errHandler.Handle(w, err, httputil.GetTraceID(r))
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		count, err := ph.prediction.PredictOnlineCount(r.Context(), date)
		if err != nil {
			ph.errHandler.Handle(w, err, httputil.GetTraceID(r))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"onlineUsers": count})
		return
	}

	rawTolerance := r.URL.Query().Get("tolerance")
	if rawTolerance == "" {
		ph.errHandler.Handle(w, errors.ValidationErrorf("MISSING_PARAMETER", "tolerance parameter is required"), httputil.GetTraceID(r))
		return
	}
	tolerance, parseErr := strconv.ParseFloat(rawTolerance, 64)
	if parseErr != nil {
		ph.errHandler.Handle(w, errors.ValidationErrorf("INVALID_TOLERANCE", "tolerance must be a number"), httputil.GetTraceID(r))
		return
	}

	prediction, err := ph.prediction.PredictUserOnline(r.Context(), userID, date, tolerance)
	if err != nil {
		ph.errHandler.Handle(w, err, httputil.GetTraceID(r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"willBeOnline": prediction.WillBeOnline,
		"onlineChance": prediction.OnlineChance,
	})
}
