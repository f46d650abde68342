package models

import "time"

// PresenceSample is the most recent presence observation for a user.
// The sampler overwrites it on every tick; query code treats it as read-only.
type PresenceSample struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex"`
	IsOnline  bool      `json:"is_online"`
	LastSeen  time.Time `json:"last_seen"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AggregateSnapshot is one sampling tick: how many users were online at an instant.
// Append-only; historical snapshots feed the aggregate prediction model.
type AggregateSnapshot struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Timestamp   time.Time `json:"timestamp" gorm:"uniqueIndex"`
	OnlineCount int64     `json:"online_count"`
}

// OnlineSpan is a contiguous interval during which a user was online.
// End is nil while the span is still open. Spans for a user never overlap
// and are ordered by Start.
type OnlineSpan struct {
	ID     string     `json:"id" gorm:"primaryKey"`
	UserID string     `json:"user_id" gorm:"index"`
	Start  time.Time  `json:"start" gorm:"column:start_time"`
	End    *time.Time `json:"end,omitempty" gorm:"column:end_time"`
}

// Duration returns the span length in seconds, using now for open spans.
func (s *OnlineSpan) Duration(now time.Time) int64 {
	end := now
	if s.End != nil {
		end = *s.End
	}
	if end.Before(s.Start) {
		return 0
	}
	return int64(end.Sub(s.Start).Seconds())
}

// Covers reports whether t falls within the span, treating open spans as
// running until now. The interval is half-open: [Start, End).
func (s *OnlineSpan) Covers(t, now time.Time) bool {
	if t.Before(s.Start) {
		return false
	}
	end := now
	if s.End != nil {
		end = *s.End
	}
	return t.Before(end)
}

// User is a directory entry, created the first time the sampler sees a user.
type User struct {
	UserID    string    `json:"userId" gorm:"primaryKey"`
	Nickname  string    `json:"nickname"`
	FirstSeen time.Time `json:"firstSeen"`
}
