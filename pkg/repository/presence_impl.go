package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"presight/pkg/models"
)

// presenceRepositoryImpl implements PresenceRepository
type presenceRepositoryImpl struct {
	db *gorm.DB
}

// NewPresenceRepository creates a new presence repository
func NewPresenceRepository(db *gorm.DB) PresenceRepository {
	return &presenceRepositoryImpl{db: db}
}

// GetSpans retrieves a user's online spans ordered by start time
func (r *presenceRepositoryImpl) GetSpans(ctx context.Context, userID string) ([]models.OnlineSpan, error) {
	var spans []models.OnlineSpan
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time ASC").
		Find(&spans)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get spans: %w", result.Error)
	}
	return spans, nil
}

// GetSnapshots retrieves aggregate snapshots within [from, to] ordered by timestamp
func (r *presenceRepositoryImpl) GetSnapshots(ctx context.Context, from, to time.Time) ([]models.AggregateSnapshot, error) {
	var snapshots []models.AggregateSnapshot
	result := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp <= ?", from, to).
		Order("timestamp ASC").
		Find(&snapshots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", result.Error)
	}
	return snapshots, nil
}

// GetSnapshotAt retrieves the snapshot recorded exactly at ts, or nil
func (r *presenceRepositoryImpl) GetSnapshotAt(ctx context.Context, ts time.Time) (*models.AggregateSnapshot, error) {
	var snapshot models.AggregateSnapshot
	result := r.db.WithContext(ctx).Where("timestamp = ?", ts).First(&snapshot)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &snapshot, nil
}

// GetCurrentSample retrieves a user's latest presence sample, or nil
func (r *presenceRepositoryImpl) GetCurrentSample(ctx context.Context, userID string) (*models.PresenceSample, error) {
	var sample models.PresenceSample
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sample)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &sample, nil
}

// UserExists reports whether the system holds any record of the user
func (r *presenceRepositoryImpl) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	if count > 0 {
		return true, nil
	}

	// Users can predate the directory table; a sample or span also counts.
	result = r.db.WithContext(ctx).Model(&models.PresenceSample{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	if count > 0 {
		return true, nil
	}

	result = r.db.WithContext(ctx).Model(&models.OnlineSpan{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// ListUsers returns the user directory ordered by first-seen time
func (r *presenceRepositoryImpl) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	result := r.db.WithContext(ctx).Order("first_seen ASC").Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list users: %w", result.Error)
	}
	return users, nil
}

// UpsertSample creates or replaces a user's current presence sample
func (r *presenceRepositoryImpl) UpsertSample(ctx context.Context, sample *models.PresenceSample) error {
	existing, err := r.GetCurrentSample(ctx, sample.UserID)
	if err != nil {
		return err
	}

	if existing != nil {
		sample.ID = existing.ID
	} else if sample.ID == "" {
		sample.ID = uuid.New().String()
	}
	sample.UpdatedAt = time.Now().UTC()

	return r.db.WithContext(ctx).Save(sample).Error
}

// AppendSnapshot records one aggregate sampling tick
func (r *presenceRepositoryImpl) AppendSnapshot(ctx context.Context, snapshot *models.AggregateSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// EnsureUser creates the directory row on first sight of a user
func (r *presenceRepositoryImpl) EnsureUser(ctx context.Context, userID, nickname string, seenAt time.Time) error {
	user := models.User{
		UserID:    userID,
		Nickname:  nickname,
		FirstSeen: seenAt,
	}
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		FirstOrCreate(&user).Error
}

// GetOpenSpan retrieves the user's currently open span, or nil
func (r *presenceRepositoryImpl) GetOpenSpan(ctx context.Context, userID string) (*models.OnlineSpan, error) {
	var span models.OnlineSpan
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND end_time IS NULL", userID).
		First(&span)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &span, nil
}

// OpenSpan starts a new open span for the user
func (r *presenceRepositoryImpl) OpenSpan(ctx context.Context, userID string, start time.Time) error {
	span := models.OnlineSpan{
		ID:     uuid.New().String(),
		UserID: userID,
		Start:  start,
	}
	return r.db.WithContext(ctx).Create(&span).Error
}

// CloseOpenSpans closes any open span for the user at the given instant
func (r *presenceRepositoryImpl) CloseOpenSpans(ctx context.Context, userID string, end time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.OnlineSpan{}).
		Where("user_id = ? AND end_time IS NULL", userID).
		Update("end_time", end).Error
}

// ForgetUser removes every record of the user in one transaction
func (r *presenceRepositoryImpl) ForgetUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.OnlineSpan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PresenceSample{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.User{}).Error; err != nil {
			return err
		}
		return nil
	})
}
