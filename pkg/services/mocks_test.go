package services

import (
	"context"
	"fmt"
	"time"

	"presight/pkg/models"
)

// mockPresenceRepository backs the service tests with in-memory data.
type mockPresenceRepository struct {
	spans     map[string][]models.OnlineSpan
	samples   map[string]*models.PresenceSample
	users     map[string]models.User
	snapshots []models.AggregateSnapshot

	failWith error
}

func newMockPresenceRepository() *mockPresenceRepository {
	return &mockPresenceRepository{
		spans:   make(map[string][]models.OnlineSpan),
		samples: make(map[string]*models.PresenceSample),
		users:   make(map[string]models.User),
	}
}

func (m *mockPresenceRepository) addClosedSpan(userID string, start, end time.Time) {
	e := end
	m.spans[userID] = append(m.spans[userID], models.OnlineSpan{
		ID:     fmt.Sprintf("span-%s-%d", userID, len(m.spans[userID])),
		UserID: userID,
		Start:  start,
		End:    &e,
	})
}

func (m *mockPresenceRepository) addOpenSpan(userID string, start time.Time) {
	m.spans[userID] = append(m.spans[userID], models.OnlineSpan{
		ID:     fmt.Sprintf("span-%s-%d", userID, len(m.spans[userID])),
		UserID: userID,
		Start:  start,
	})
}

func (m *mockPresenceRepository) addSnapshot(at time.Time, count int64) {
	m.snapshots = append(m.snapshots, models.AggregateSnapshot{
		ID:          fmt.Sprintf("snap-%d", len(m.snapshots)),
		Timestamp:   at,
		OnlineCount: count,
	})
}

func (m *mockPresenceRepository) GetSpans(ctx context.Context, userID string) ([]models.OnlineSpan, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.spans[userID], nil
}

func (m *mockPresenceRepository) GetSnapshots(ctx context.Context, from, to time.Time) ([]models.AggregateSnapshot, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.AggregateSnapshot
	for _, s := range m.snapshots {
		if !s.Timestamp.Before(from) && !s.Timestamp.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockPresenceRepository) GetSnapshotAt(ctx context.Context, ts time.Time) (*models.AggregateSnapshot, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for i := range m.snapshots {
		if m.snapshots[i].Timestamp.Equal(ts) {
			return &m.snapshots[i], nil
		}
	}
	return nil, nil
}

func (m *mockPresenceRepository) GetCurrentSample(ctx context.Context, userID string) (*models.PresenceSample, error) {
	return m.samples[userID], nil
}

func (m *mockPresenceRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	if _, ok := m.users[userID]; ok {
		return true, nil
	}
	if _, ok := m.samples[userID]; ok {
		return true, nil
	}
	return len(m.spans[userID]) > 0, nil
}

func (m *mockPresenceRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockPresenceRepository) UpsertSample(ctx context.Context, sample *models.PresenceSample) error {
	m.samples[sample.UserID] = sample
	return nil
}

func (m *mockPresenceRepository) AppendSnapshot(ctx context.Context, snapshot *models.AggregateSnapshot) error {
	m.snapshots = append(m.snapshots, *snapshot)
	return nil
}

func (m *mockPresenceRepository) EnsureUser(ctx context.Context, userID, nickname string, seenAt time.Time) error {
	if _, ok := m.users[userID]; !ok {
		m.users[userID] = models.User{UserID: userID, Nickname: nickname, FirstSeen: seenAt}
	}
	return nil
}

func (m *mockPresenceRepository) GetOpenSpan(ctx context.Context, userID string) (*models.OnlineSpan, error) {
	spans := m.spans[userID]
	for i := range spans {
		if spans[i].End == nil {
			return &spans[i], nil
		}
	}
	return nil, nil
}

func (m *mockPresenceRepository) OpenSpan(ctx context.Context, userID string, start time.Time) error {
	m.addOpenSpan(userID, start)
	return nil
}

func (m *mockPresenceRepository) CloseOpenSpans(ctx context.Context, userID string, end time.Time) error {
	spans := m.spans[userID]
	for i := range spans {
		if spans[i].End == nil {
			e := end
			spans[i].End = &e
		}
	}
	return nil
}

func (m *mockPresenceRepository) ForgetUser(ctx context.Context, userID string) error {
	delete(m.spans, userID)
	delete(m.samples, userID)
	delete(m.users, userID)
	return nil
}

// mustParse parses the wire timestamp layout used throughout the tests.
func mustParse(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		panic(err)
	}
	return t
}
