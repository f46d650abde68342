package sampler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"presight/pkg/logging"
	"presight/pkg/metrics"
	"presight/pkg/models"
	"presight/pkg/repository"
)

// PresenceObservation is one user's state as seen by the roster source.
type PresenceObservation struct {
	UserID   string
	Nickname string
	IsOnline bool
	LastSeen time.Time
}

// UserDirectory supplies the current roster with presence state. Production
// implementations front an external roster API; tests use a static one.
type UserDirectory interface {
	Snapshot(ctx context.Context) ([]PresenceObservation, error)
}

// Sampler periodically records the roster's presence state: one sample per
// user, one aggregate snapshot per tick, and span open/close on status
// transitions. Errors are logged and counted, never fatal to the loop.
type Sampler struct {
	directory UserDirectory
	repo      repository.PresenceRepository
	logger    *logging.Logger
	mets      *metrics.Metrics
	interval  time.Duration
	now       func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a sampler. mets may be nil.
func New(directory UserDirectory, repo repository.PresenceRepository, logger *logging.Logger, mets *metrics.Metrics, interval time.Duration) *Sampler {
	return &Sampler{
		directory: directory,
		repo:      repo,
		logger:    logger,
		mets:      mets,
		interval:  interval,
		now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start runs the sampling loop until the context is cancelled or Stop is
// called. The first tick fires immediately.
func (s *Sampler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		s.Tick(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.Tick(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for the in-flight tick to finish.
func (s *Sampler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// Tick records one observation of the whole roster. Snapshot timestamps are
// truncated to whole seconds so point-in-time queries can hit them exactly.
func (s *Sampler) Tick(ctx context.Context) {
	now := s.now().UTC().Truncate(time.Second)

	observations, err := s.directory.Snapshot(ctx)
	if err != nil {
		s.logger.Error("presence roster fetch failed", zap.Error(err))
		if s.mets != nil {
			s.mets.SamplerTickErrors.Inc()
		}
		return
	}

	var onlineCount int64
	failed := false
	for i := range observations {
		obs := &observations[i]
		if obs.IsOnline {
			onlineCount++
		}
		if err := s.recordUser(ctx, obs, now); err != nil {
			s.logger.Error("failed to record user presence",
				zap.String("user_id", obs.UserID),
				zap.Error(err),
			)
			failed = true
		}
	}

	if err := s.repo.AppendSnapshot(ctx, &models.AggregateSnapshot{
		Timestamp:   now,
		OnlineCount: onlineCount,
	}); err != nil {
		s.logger.Error("failed to append aggregate snapshot", zap.Error(err))
		failed = true
	}

	if s.mets != nil {
		s.mets.SamplerTicksTotal.Inc()
		s.mets.OnlineUsersSampled.Set(float64(onlineCount))
		if failed {
			s.mets.SamplerTickErrors.Inc()
		}
	}
}

// recordUser upserts the user's sample and keeps their span state in step
// with the observed status.
func (s *Sampler) recordUser(ctx context.Context, obs *PresenceObservation, now time.Time) error {
	if err := s.repo.EnsureUser(ctx, obs.UserID, obs.Nickname, now); err != nil {
		return err
	}

	if err := s.repo.UpsertSample(ctx, &models.PresenceSample{
		UserID:    obs.UserID,
		IsOnline:  obs.IsOnline,
		LastSeen:  obs.LastSeen,
		UpdatedAt: now,
	}); err != nil {
		return err
	}

	open, err := s.repo.GetOpenSpan(ctx, obs.UserID)
	if err != nil {
		return err
	}

	switch {
	case obs.IsOnline && open == nil:
		return s.repo.OpenSpan(ctx, obs.UserID, now)
	case !obs.IsOnline && open != nil:
		return s.repo.CloseOpenSpans(ctx, obs.UserID, now)
	}
	return nil
}
