package sampler

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// syntheticDirectory is a self-contained roster used when no external roster
// API is configured. It keeps a fixed user population and flips presence
// states over time, which is enough to drive the analytics pipeline end to
// end in development deployments.
type syntheticDirectory struct {
	mu    sync.Mutex
	rng   *rand.Rand
	users []PresenceObservation
}

// NewSyntheticDirectory creates a directory with the given population size.
func NewSyntheticDirectory(size int) UserDirectory {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	users := make([]PresenceObservation, size)
	for i := range users {
		users[i] = PresenceObservation{
			UserID:   uuid.New().String(),
			Nickname: fmt.Sprintf("user-%03d", i),
			IsOnline: rng.Intn(2) == 0,
		}
	}
	return &syntheticDirectory{rng: rng, users: users}
}

// Snapshot returns the roster, randomly toggling a small fraction of users
// each call so spans open and close over time.
func (d *syntheticDirectory) Snapshot(ctx context.Context) ([]PresenceObservation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now().UTC()
	out := make([]PresenceObservation, len(d.users))
	for i := range d.users {
		if d.rng.Float64() < 0.1 {
			d.users[i].IsOnline = !d.users[i].IsOnline
		}
		if d.users[i].IsOnline {
			d.users[i].LastSeen = now
		}
		out[i] = d.users[i]
	}
	return out, nil
}
