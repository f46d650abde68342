package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presight/pkg/errors"
)

func newStatsServiceAt(repo *mockPresenceRepository, now time.Time) *statsServiceImpl {
	svc := NewStatsService(repo).(*statsServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func TestTotalOnlineSeconds_SingleSpan(t *testing.T) {
	repo := newMockPresenceRepository()
	repo.addClosedSpan("u1", mustParse("2023-10-05T17:01:17"), mustParse("2023-10-05T17:05:32"))
	svc := newStatsServiceAt(repo, mustParse("2023-10-06T00:00:00"))

	total, err := svc.TotalOnlineSeconds(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(255), total)
}

func TestTotalOnlineSeconds_SumsSpans(t *testing.T) {
	repo := newMockPresenceRepository()
	repo.addClosedSpan("u1", mustParse("2023-10-05T10:00:00"), mustParse("2023-10-05T10:01:40"))
	repo.addClosedSpan("u1", mustParse("2023-10-05T17:01:17"), mustParse("2023-10-05T17:05:32"))
	svc := newStatsServiceAt(repo, mustParse("2023-10-06T00:00:00"))

	total, err := svc.TotalOnlineSeconds(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(100+255), total)
}

func TestTotalOnlineSeconds_OpenSpanRunsUntilNow(t *testing.T) {
	repo := newMockPresenceRepository()
	repo.addOpenSpan("u1", mustParse("2023-10-05T17:00:00"))
	svc := newStatsServiceAt(repo, mustParse("2023-10-05T17:10:00"))

	total, err := svc.TotalOnlineSeconds(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(600), total)
}

func TestTotalOnlineSeconds_UnknownUser(t *testing.T) {
	repo := newMockPresenceRepository()
	svc := newStatsServiceAt(repo, mustParse("2023-10-06T00:00:00"))

	_, err := svc.TotalOnlineSeconds(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestTotalOnlineSeconds_NoSpansIsNotFound(t *testing.T) {
	repo := newMockPresenceRepository()
	require.NoError(t, repo.EnsureUser(context.Background(), "u1", "u1", mustParse("2023-10-05T00:00:00")))
	svc := newStatsServiceAt(repo, mustParse("2023-10-06T00:00:00"))

	_, err := svc.TotalOnlineSeconds(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAverages_SingleDaySingleWeek(t *testing.T) {
	repo := newMockPresenceRepository()
	repo.addClosedSpan("u1", mustParse("2023-10-05T17:01:17"), mustParse("2023-10-05T17:05:32"))
	svc := newStatsServiceAt(repo, mustParse("2023-10-06T00:00:00"))

	avg, err := svc.DailyAndWeeklyAverage(context.Background(), "u1")
	require.NoError(t, err)
	// All activity inside one day and one week, so both averages collapse
	// to the total.
	assert.InDelta(t, 255, avg.Day, 1e-9)
	assert.InDelta(t, 255, avg.Week, 1e-9)
}

func TestAverages_TwoDays(t *testing.T) {
	repo := newMockPresenceRepository()
	repo.addClosedSpan("u1", mustParse("2023-10-05T10:00:00"), mustParse("2023-10-05T10:05:00"))
	repo.addClosedSpan("u1", mustParse("2023-10-06T10:00:00"), mustParse("2023-10-06T10:05:00"))
	svc := newStatsServiceAt(repo, mustParse("2023-10-07T00:00:00"))

	avg, err := svc.DailyAndWeeklyAverage(context.Background(), "u1")
	require.NoError(t, err)
	assert.InDelta(t, 300, avg.Day, 1e-9)
	assert.InDelta(t, 600, avg.Week, 1e-9)
}

func TestAverages_SpanCrossingMidnightTouchesBothDays(t *testing.T) {
	repo := newMockPresenceRepository()
	repo.addClosedSpan("u1", mustParse("2023-10-05T23:30:00"), mustParse("2023-10-06T00:30:00"))
	svc := newStatsServiceAt(repo, mustParse("2023-10-07T00:00:00"))

	avg, err := svc.DailyAndWeeklyAverage(context.Background(), "u1")
	require.NoError(t, err)
	assert.InDelta(t, 1800, avg.Day, 1e-9)
	assert.InDelta(t, 3600, avg.Week, 1e-9)
}

func TestAverages_TwoWeeks(t *testing.T) {
	repo := newMockPresenceRepository()
	repo.addClosedSpan("u1", mustParse("2023-10-01T10:00:00"), mustParse("2023-10-01T11:00:00"))
	repo.addClosedSpan("u1", mustParse("2023-10-12T10:00:00"), mustParse("2023-10-12T11:00:00"))
	svc := newStatsServiceAt(repo, mustParse("2023-10-13T00:00:00"))

	avg, err := svc.DailyAndWeeklyAverage(context.Background(), "u1")
	require.NoError(t, err)
	// 7200 seconds over 2 distinct days and ceil(11 days / 7) = 2 weeks.
	assert.InDelta(t, 3600, avg.Day, 1e-9)
	assert.InDelta(t, 3600, avg.Week, 1e-9)
}
