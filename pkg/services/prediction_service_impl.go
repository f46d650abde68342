package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"presight/pkg/cache"
	"presight/pkg/errors"
	"presight/pkg/repository"
)

const (
	// onlineDecisionThreshold is the chance above which a user is predicted
	// to be online.
	onlineDecisionThreshold = 0.5

	// predictionLookback bounds how far back snapshots are considered for
	// aggregate prediction.
	predictionLookback = 90 * 24 * time.Hour

	// toleranceUnit converts the query's fractional tolerance into a window
	// half-width: tolerance 0.75 means ±45 minutes around the target's
	// time of day.
	toleranceUnit = time.Hour

	// bucketCacheTTL bounds staleness of memoized hour-bucket means.
	bucketCacheTTL = time.Minute

	secondsPerDay = 24 * 60 * 60
)

// predictionServiceImpl implements PredictionService
type predictionServiceImpl struct {
	repo    repository.PresenceRepository
	buckets *cache.LocalCache
	now     func() time.Time
}

// NewPredictionService creates a new prediction service
func NewPredictionService(repo repository.PresenceRepository) PredictionService {
	return &predictionServiceImpl{
		repo:    repo,
		buckets: cache.NewLocalCache(),
		now:     time.Now,
	}
}

// PredictOnlineCount estimates the online-user count at a future instant.
// Historical snapshots whose hour of day matches the target's feed an
// arithmetic mean, rounded to the nearest integer. A nil result means the
// hour bucket holds no history inside the lookback window.
func (s *predictionServiceImpl) PredictOnlineCount(ctx context.Context, target time.Time) (*int64, error) {
	hour := target.Hour()
	key := fmt.Sprintf("bucket-mean:%02d", hour)

	if v, ok := s.buckets.Get(key); ok {
		return v.(*int64), nil
	}

	now := s.now()
	snapshots, err := s.repo.GetSnapshots(ctx, now.Add(-predictionLookback), now)
	if err != nil {
		return nil, errors.InternalErrorf("STORE_ERROR", "failed to load snapshots").Wrap(err)
	}

	var sum, matched int64
	for i := range snapshots {
		if snapshots[i].Timestamp.Hour() == hour {
			sum += snapshots[i].OnlineCount
			matched++
		}
	}

	var result *int64
	if matched > 0 {
		mean := int64(math.Round(float64(sum) / float64(matched)))
		result = &mean
	}

	s.buckets.Set(key, result, bucketCacheTTL)
	return result, nil
}

// PredictUserOnline estimates the probability a user is online at a future
// instant. The chance is the fraction of the user's historical spans whose
// time-of-day interval intersects a window of ±tolerance hours around the
// target's time of day. No spans in the window is a defined zero, not an
// error; an entirely unknown user is.
func (s *predictionServiceImpl) PredictUserOnline(ctx context.Context, userID string, target time.Time, tolerance float64) (*OnlinePrediction, error) {
	if tolerance < 0 {
		return nil, errors.ValidationErrorf("INVALID_TOLERANCE", "tolerance must not be negative")
	}

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
		return &OnlinePrediction{WillBeOnline: false, OnlineChance: 0}, nil
	}

	half := tolerance * toleranceUnit.Seconds()
	windowStart := secondsSinceMidnight(target) - half
	windowLen := 2 * half

	now := s.now()
	var matched int
	for i := range spans {
		span := &spans[i]
		end := now
		if span.End != nil {
			end = *span.End
		}
		spanLen := end.Sub(span.Start).Seconds()
		if spanLen < 0 {
			spanLen = 0
		}
		if circularOverlap(secondsSinceMidnight(span.Start), spanLen, windowStart, windowLen, secondsPerDay) {
			matched++
		}
	}

	chance := float64(matched) / float64(len(spans))
	return &OnlinePrediction{
		WillBeOnline: chance > onlineDecisionThreshold,
		OnlineChance: chance,
	}, nil
}

// secondsSinceMidnight maps an instant onto the daily time-of-day circle.
func secondsSinceMidnight(t time.Time) float64 {
	u := t.UTC()
	return float64(u.Hour()*3600+u.Minute()*60+u.Second()) + float64(u.Nanosecond())/1e9
}

// circularOverlap reports whether two arcs [aStart, aStart+aLen) and
// [bStart, bStart+bLen) intersect on a circle of the given period. A point
// (zero-length arc) overlaps an arc containing it; arcs spanning the whole
// circle overlap everything.
func circularOverlap(aStart, aLen, bStart, bLen, period float64) bool {
	if aLen >= period || bLen >= period {
		return true
	}

	d := math.Mod(bStart-aStart, period)
	if d < 0 {
		d += period
	}
	// b begins inside a, or a begins inside b.
	return d <= aLen || period-d <= bLen
}
