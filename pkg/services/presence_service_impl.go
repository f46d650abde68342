package services

import (
	"context"
	"time"

	"presight/pkg/errors"
	"presight/pkg/models"
	"presight/pkg/repository"
)

// presenceServiceImpl implements PresenceService
type presenceServiceImpl struct {
	repo repository.PresenceRepository
	now  func() time.Time
}

// NewPresenceService creates a new presence service
func NewPresenceService(repo repository.PresenceRepository) PresenceService {
	return &presenceServiceImpl{
		repo: repo,
		now:  time.Now,
	}
}

// WasOnline resolves a user's status at an instant against their spans.
// The instant is online when it falls within [start, end) of any span; open
// spans run until now. Offline instants report the end of the most recent
// span that ended at or before t.
func (s *presenceServiceImpl) WasOnline(ctx context.Context, userID string, t time.Time) (*OnlineStatus, error) {
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

	now := s.now()
	var nearest *time.Time
	for i := range spans {
		span := &spans[i]
		if span.Covers(t, now) {
			return &OnlineStatus{Online: true}, nil
		}
		// Only closed spans can supply a nearest end.
		if span.End != nil && !span.End.After(t) {
			if nearest == nil || span.End.After(*nearest) {
				end := *span.End
				nearest = &end
			}
		}
	}

	return &OnlineStatus{Online: false, NearestOnlineTime: nearest}, nil
}

// OnlineCountAt returns the online-user count recorded exactly at t.
// A nil count means no sampling tick matches the instant; that is not an
// error, just absent data.
func (s *presenceServiceImpl) OnlineCountAt(ctx context.Context, t time.Time) (*int64, error) {
	snapshot, err := s.repo.GetSnapshotAt(ctx, t)
	if err != nil {
		return nil, errors.InternalErrorf("STORE_ERROR", "failed to load snapshot").Wrap(err)
	}
	if snapshot == nil {
		return nil, nil
	}
	count := snapshot.OnlineCount
	return &count, nil
}

// ForgetUser removes every stored record of the user
func (s *presenceServiceImpl) ForgetUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.ValidationErrorf("MISSING_PARAMETER", "userId parameter is required")
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return errors.InternalErrorf("STORE_ERROR", "failed to check user").Wrap(err)
	}
	if !exists {
		return errors.NotFoundErrorf("USER_NOT_FOUND", "user not found")
	}

	if err := s.repo.ForgetUser(ctx, userID); err != nil {
		return errors.InternalErrorf("STORE_ERROR", "failed to forget user").Wrap(err)
	}
	return nil
}

// ListUsers returns the user directory
func (s *presenceServiceImpl) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, errors.InternalErrorf("STORE_ERROR", "failed to list users").Wrap(err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
