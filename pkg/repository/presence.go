package repository

import (
	"context"
	"time"

	"presight/pkg/models"
)

// PresenceRepository defines the interface for presence data access.
// The query services only use the read side; the write side belongs to the
// sampling loop and the forget-user operation.
type PresenceRepository interface {
	// GetSpans retrieves a user's online spans ordered by start time.
	// Unknown users yield an empty slice, not an error.
	GetSpans(ctx context.Context, userID string) ([]models.OnlineSpan, error)

	// GetSnapshots retrieves aggregate snapshots within [from, to] ordered by timestamp
	GetSnapshots(ctx context.Context, from, to time.Time) ([]models.AggregateSnapshot, error)

	// GetSnapshotAt retrieves the snapshot recorded exactly at ts, or nil
	GetSnapshotAt(ctx context.Context, ts time.Time) (*models.AggregateSnapshot, error)

	// GetCurrentSample retrieves a user's latest presence sample, or nil
	GetCurrentSample(ctx context.Context, userID string) (*models.PresenceSample, error)

	// UserExists reports whether the system holds any record of the user
	UserExists(ctx context.Context, userID string) (bool, error)

	// ListUsers returns the user directory ordered by first-seen time
	ListUsers(ctx context.Context) ([]models.User, error)

	// UpsertSample creates or replaces a user's current presence sample
	UpsertSample(ctx context.Context, sample *models.PresenceSample) error

	// AppendSnapshot records one aggregate sampling tick
	AppendSnapshot(ctx context.Context, snapshot *models.AggregateSnapshot) error

	// EnsureUser creates the directory row on first sight of a user
	EnsureUser(ctx context.Context, userID, nickname string, seenAt time.Time) error

	// GetOpenSpan retrieves the user's currently open span, or nil
	GetOpenSpan(ctx context.Context, userID string) (*models.OnlineSpan, error)

	// OpenSpan starts a new open span for the user
	OpenSpan(ctx context.Context, userID string, start time.Time) error

	// CloseOpenSpans closes any open span for the user at the given instant
	CloseOpenSpans(ctx context.Context, userID string, end time.Time) error

	// ForgetUser removes every record of the user in one transaction
	ForgetUser(ctx context.Context, userID string) error
}
