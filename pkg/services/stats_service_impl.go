package services

import (
	"context"
	"math"
	"time"

	"presight/pkg/errors"
	"presight/pkg/models"
	"presight/pkg/repository"
)

const secondsPerWeek = 7 * 24 * 60 * 60

// statsServiceImpl implements StatsService
type statsServiceImpl struct {
	repo repository.PresenceRepository
	now  func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(repo repository.PresenceRepository) StatsService {
	return &statsServiceImpl{
		repo: repo,
		now:  time.Now,
	}
}

// TotalOnlineSeconds sums the user's span durations in seconds. Closed spans
// contribute end-start; open spans contribute up to now.
func (s *statsServiceImpl) TotalOnlineSeconds(ctx context.Context, userID string) (int64, error) {
	spans, err := s.loadSpans(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	var total int64
	for i := range spans {
		total += spans[i].Duration(now)
	}
	return total, nil
}

// DailyAndWeeklyAverage computes average online seconds per calendar day and
// per 7-day bucket. The day divisor is the number of distinct UTC calendar
// days any span touches; the week divisor is the number of 7-day buckets
// between the earliest span start and the latest span end, rounded up.
// A dataset contained in a single day (or week) therefore averages to the
// total itself.
func (s *statsServiceImpl) DailyAndWeeklyAverage(ctx context.Context, userID string) (*AverageStats, error) {
	spans, err := s.loadSpans(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var total int64
	days := make(map[string]struct{})
	earliest := spans[0].Start
	latest := spans[0].Start

	for i := range spans {
		span := &spans[i]
		total += span.Duration(now)

		end := now
		if span.End != nil {
			end = *span.End
		}
		if span.Start.Before(earliest) {
			earliest = span.Start
		}
		if end.After(latest) {
			latest = end
		}

		for d := span.Start.UTC().Truncate(24 * time.Hour); !d.After(end.UTC()); d = d.AddDate(0, 0, 1) {
			days[d.Format("2006-01-02")] = struct{}{}
		}
	}

	weeks := int64(math.Ceil(latest.Sub(earliest).Seconds() / secondsPerWeek))
	if weeks < 1 {
		weeks = 1
	}

	return &AverageStats{
		Day:  float64(total) / float64(len(days)),
		Week: float64(total) / float64(weeks),
	}, nil
}

// loadSpans fetches spans and translates "nothing recorded" into not-found.
func (s *statsServiceImpl) loadSpans(ctx context.Context, userID string) ([]models.OnlineSpan, error) {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, errors.InternalErrorf("STORE_ERROR", "failed to check user").Wrap(err)
	}
	if !exists {
		return nil, errors.NotFoundErrorf("USER_NOT_FOUND", "User not found.")
	}

	spans, err := s.repo.GetSpans(ctx, userID)
	if err != nil {
		return nil, errors.InternalErrorf("STORE_ERROR", "failed to load spans").Wrap(err)
	}
	if len(spans) == 0 {
		return nil, errors.NotFoundErrorf("NO_SPANS", "no online time recorded for user")
	}
	return spans, nil
}
