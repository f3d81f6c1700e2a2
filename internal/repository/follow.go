package repository

import (
	"context"

	"kindnest/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for directed follow rows.
// Create and Delete report whether a row was actually inserted or removed:
// a concurrent toggle may have changed the pair first, and reputation side
// effects must apply exactly once per actual state change.
type FollowRepository interface {
	Exists(ctx context.Context, follower, target models.Actor) (bool, error)
	Create(ctx context.Context, follower, target models.Actor) (bool, error)
	Delete(ctx context.Context, follower, target models.Actor) (bool, error)
	CountFollowers(ctx context.Context, target models.Actor) (int64, error)
	CountFollowing(ctx context.Context, follower models.Actor) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Exists(ctx context.Context, follower, target models.Actor) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_kind = ? AND follower_id = ? AND following_kind = ? AND following_id = ?",
			follower.Kind, follower.ID, target.Kind, target.ID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Create(ctx context.Context, follower, target models.Actor) (bool, error) {
	follow := models.Follow{
		FollowerKind:  follower.Kind,
		FollowerID:    follower.ID,
		FollowingKind: target.Kind,
		FollowingID:   target.ID,
	}
	if err := r.db.WithContext(ctx).Create(&follow).Error; err != nil {
		// Concurrent toggle already created the row; the end state holds,
		// but the caller must not award reputation a second time.
		if IsUniqueViolation(err) {
			return false, nil
		}
		return false, classifyWriteError(err, "Follow target")
	}
	return true, nil
}

func (r *followRepository) Delete(ctx context.Context, follower, target models.Actor) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_kind = ? AND follower_id = ? AND following_kind = ? AND following_id = ?",
			follower.Kind, follower.ID, target.Kind, target.ID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, target models.Actor) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_kind = ? AND following_id = ?", target.Kind, target.ID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, follower models.Actor) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_kind = ? AND follower_id = ?", follower.Kind, follower.ID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
