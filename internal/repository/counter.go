package repository

import (
	"context"

	"kindnest/internal/models"
	"kindnest/internal/observability"

	"gorm.io/gorm"
)

// CounterRepository is the sole writer of the denormalized counters on posts.
// Counters are always recomputed from the relation tables, never incremented
// in place, so a reconcile after any write converges to the true count.
type CounterRepository interface {
	ReconcileLikes(ctx context.Context, postID uint) (int64, error)
	ReconcileComments(ctx context.Context, postID uint) (int64, error)
}

type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository returns a CounterRepository bound to db, which may be
// a transaction handle.
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) ReconcileLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Update("likes_count", count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	observability.CounterReconciles.WithLabelValues("likes").Inc()
	return count, nil
}

func (r *counterRepository) ReconcileComments(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ? AND is_active = ?", postID, true).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Update("comments_count", count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	observability.CounterReconciles.WithLabelValues("comments").Inc()
	return count, nil
}
