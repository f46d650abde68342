package services

import (
	"context"
	"time"

	"presight/pkg/models"
)

// OnlineStatus is the answer to a point-in-time presence query.
// NearestOnlineTime is the end of the most recent online interval at or
// before the queried instant; nil when the user was online (no search
// needed) or when no prior interval exists.
type OnlineStatus struct {
	Online            bool       `json:"wasUserOnline"`
	NearestOnlineTime *time.Time `json:"nearestOnlineTime"`
}

// AverageStats holds per-user daily and weekly average online seconds.
type AverageStats struct {
	Day  float64 `json:"dayAverage"`
	Week float64 `json:"weekAverage"`
}

// OnlinePrediction is the answer to a single-user future presence query.
type OnlinePrediction struct {
	WillBeOnline bool    `json:"willBeOnline"`
	OnlineChance float64 `json:"onlineChance"`
}

// PresenceService answers point-in-time presence queries and owns user-level
// operations over the presence store.
type PresenceService interface {
	// WasOnline resolves a user's status at an instant against their spans
	WasOnline(ctx context.Context, userID string, t time.Time) (*OnlineStatus, error)

	// OnlineCountAt returns the online-user count recorded exactly at t,
	// or nil when no sampling tick matches
	OnlineCountAt(ctx context.Context, t time.Time) (*int64, error)

	// ForgetUser removes every stored record of the user
	ForgetUser(ctx context.Context, userID string) error

	// ListUsers returns the user directory
	ListUsers(ctx context.Context) ([]models.User, error)
}

// StatsService computes per-user aggregate statistics from resolved spans.
type StatsService interface {
	// TotalOnlineSeconds sums the user's span durations in seconds
	TotalOnlineSeconds(ctx context.Context, userID string) (int64, error)

	// DailyAndWeeklyAverage computes average online seconds per calendar day
	// and per 7-day bucket
	DailyAndWeeklyAverage(ctx context.Context, userID string) (*AverageStats, error)
}

// PredictionService estimates future presence from historical samples.
type PredictionService interface {
	// PredictOnlineCount estimates the online-user count at a future instant
	// from snapshots in the same time-of-day bucket; nil when the bucket has
	// no history
	PredictOnlineCount(ctx context.Context, target time.Time) (*int64, error)

	// PredictUserOnline estimates the probability a user is online at a
	// future instant, matching historical spans within a tolerance window
	// around the target's time of day
	PredictUserOnline(ctx context.Context, userID string, target time.Time, tolerance float64) (*OnlinePrediction, error)
}

// ReportService generates, caches and serves named multi-metric reports.
type ReportService interface {
	// Generate computes a report for the request and publishes it under the
	// request's name, replacing any previous report of that name
	Generate(ctx context.Context, req models.ReportRequest) (*models.Report, error)

	// Get retrieves a report by name
	Get(name string) (*models.Report, error)

	// ListAll returns all cached reports sorted by name
	ListAll() []*models.Report

	// ClearAll drops every cached report
	ClearAll()
}
