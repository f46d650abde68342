package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presight/pkg/errors"
	"presight/pkg/services"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestGetUsersOnline_Aggregate(t *testing.T) {
	count := int64(5)
	sh := NewStatsHandlers(&mockPresenceService{count: &count}, &mockStatsService{}, errors.NewErrorHandler(false))

	req := httptest.NewRequest(http.MethodGet, "/api/stats/users?date=2023-10-05T17:00:00", nil)
	rec := httptest.NewRecorder()
	sh.GetUsersOnline(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(5), body["usersOnline"])
}

func TestGetUsersOnline_AggregateNoData(t *testing.T) {
	sh := NewStatsHandlers(&mockPresenceService{}, &mockStatsService{}, errors.NewErrorHandler(false))

	req := httptest.NewRequest(http.MethodGet, "/api/stats/users?date=2077-01-01T00:00:00", nil)
	rec := httptest.NewRecorder()
	sh.GetUsersOnline(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	v, present := body["usersOnline"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestGetUsersOnline_PerUserOnline(t *testing.T) {
	sh := NewStatsHandlers(&mockPresenceService{
		status: &services.OnlineStatus{Online: true},
	}, &mockStatsService{}, errors.NewErrorHandler(false))

	req := httptest.NewRequest(http.MethodGet, "/api/stats/users?date=2023-10-05T17:01:17&userId=u1", nil)
	rec := httptest.NewRecorder()
	sh.GetUsersOnline(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["wasUserOnline"])
	assert.Nil(t, body["nearestOnlineTime"])
}

func TestGetUsersOnline_PerUserOfflineFormatsNearest(t *testing.T) {
	nearest := time.Date(2023, 10, 5, 17, 5, 32, 0, time.UTC)
	sh := NewStatsHandlers(&mockPresenceService{
		status: &services.OnlineStatus{Online: false, NearestOnlineTime: &nearest},
	}, &mockStatsService{}, errors.NewErrorHandler(false))

	req := httptest.NewRequest(http.MethodGet, "/api/stats/users?date=2077-01-01T00:00:00&userId=u1", nil)
	rec := httptest.NewRecorder()
	sh.GetUsersOnline(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["wasUserOnline"])
	assert.Equal(t, "2023-10-05T17:05:32", body["nearestOnlineTime"])
}

func TestGetUsersOnline_UnknownUserIs404(t *testing.T) {
	sh := NewStatsHandlers(&mockPresenceService{
		wasOnlineErr: errors.NotFoundErrorf("USER_NOT_FOUND", "User not found."),
	}, &mockStatsService{}, errors.NewErrorHandler(false))

	req := httptest.NewRequest(http.MethodGet, "/api/stats/users?date=2023-10-05T17:00:00&userId=ghost", nil)
	rec := httptest.NewRecorder()
	sh.GetUsersOnline(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUsersOnline_DateValidation(t *testing.T) {
	sh := NewStatsHandlers(&mockPresenceService{}, &mockStatsService{}, errors.NewErrorHandler(false))

	for _, url := range []string{
		"/api/stats/users",
		"/api/stats/users?date=yesterday",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		sh.GetUsersOnline(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "url %s", url)
	}
}

func TestGetUserTotal(t *testing.T) {
	sh := NewStatsHandlers(&mockPresenceService{}, &mockStatsService{total: 255}, errors.NewErrorHandler(false))

	req := httptest.NewRequest(http.MethodGet, "/api/stats/user/total?userId=u1", nil)
	rec := httptest.NewRecorder()
	sh.GetUserTotal(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(255), body["totalTime"])
}

func TestGetUserTotal_UnknownUserIsNull(t *testing.T) {
	sh := NewStatsHandlers(&mockPresenceService{}, &mockStatsService{
		err: errors.NotFoundErrorf("USER_NOT_FOUND", "User not found."),
	}, errors.NewErrorHandler(false))

	req := httptest.NewRequest(http.MethodGet, "/api/stats/user/total?userId=ghost", nil)
	rec := httptest.NewRecorder()
	sh.GetUserTotal(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	v, present := body["totalTime"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestGetUserTotal_Averages(t *testing.T) {
	sh := NewStatsHandlers(&mockPresenceService{}, &mockStatsService{
		averages: &services.AverageStats{Day: 255, Week: 255},
	}, errors.NewErrorHandler(false))

	req := httptest.NewRequest(http.MethodGet, "/api/stats/user/total?userId=u1&averageRequired=true", nil)
	rec := httptest.NewRecorder()
	sh.GetUserTotal(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(255), body["dayAverage"])
	assert.Equal(t, float64(255), body["weekAverage"])
}

func TestGetUserTotal_AveragesUnknownUserIsNull(t *testing.T) {
	sh := NewStatsHandlers(&mockPresenceService{}, &mockStatsService{
		err: errors.NotFoundErrorf("USER_NOT_FOUND", "User not found."),
	}, errors.NewErrorHandler(false))

	req := httptest.NewRequest(http.MethodGet, "/api/stats/user/total?userId=ghost&averageRequired=true", nil)
	rec := httptest.NewRecorder()
	sh.GetUserTotal(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Nil(t, body["dayAverage"])
	assert.Nil(t, body["weekAverage"])
}

func TestGetUserTotal_MissingUserID(t *testing.T) {
	sh := NewStatsHandlers(&mockPresenceService{}, &mockStatsService{}, errors.NewErrorHandler(false))

	req := httptest.NewRequest(http.MethodGet, "/api/stats/user/total", nil)
	rec := httptest.NewRecorder()
	sh.GetUserTotal(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
