package repository

import (
	"context"

	"kindnest/internal/models"
	"kindnest/internal/observability"

	"gorm.io/gorm"
)

// clampedAdd builds an update expression that adds delta to column and
// clamps the result at zero. CASE is used instead of GREATEST so the same
// expression runs on both postgres and sqlite.
func clampedAdd(column string, delta int) interface{} {
	return gorm.Expr("CASE WHEN "+column+" + ? < 0 THEN 0 ELSE "+column+" + ? END", delta, delta)
}

// ReputationRepository adjusts a child's XP and denormalized interaction
// tallies. Every adjustment clamps at zero, so revoking an interaction never
// drives a balance negative even if the grant was never recorded.
type ReputationRepository interface {
	AddXP(ctx context.Context, childID uint, delta int, source string) error
	AdjustLikesReceived(ctx context.Context, childID uint, delta int) error
	AdjustCommentsMade(ctx context.Context, childID uint, delta int) error
	GetXP(ctx context.Context, childID uint) (int, error)
}

type reputationRepository struct {
	db *gorm.DB
}

// NewReputationRepository returns a ReputationRepository bound to db, which
// may be a transaction handle.
func NewReputationRepository(db *gorm.DB) ReputationRepository {
	return &reputationRepository{db: db}
}

func (r *reputationRepository) adjust(ctx context.Context, childID uint, column string, delta int) error {
	if delta == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Child{}).
		Where("id = ?", childID).
		Update(column, clampedAdd(column, delta)).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reputationRepository) AddXP(ctx context.Context, childID uint, delta int, source string) error {
	if err := r.adjust(ctx, childID, "xp_points", delta); err != nil {
		return err
	}
	direction := "grant"
	if delta < 0 {
		direction = "revoke"
	}
	observability.ReputationAdjustments.WithLabelValues(source, direction).Inc()
	return nil
}

func (r *reputationRepository) AdjustLikesReceived(ctx context.Context, childID uint, delta int) error {
	return r.adjust(ctx, childID, "total_likes_received", delta)
}

func (r *reputationRepository) AdjustCommentsMade(ctx context.Context, childID uint, delta int) error {
	return r.adjust(ctx, childID, "total_comments_made", delta)
}

func (r *reputationRepository) GetXP(ctx context.Context, childID uint) (int, error) {
	var child models.Child
	err := r.db.WithContext(ctx).
		Select("xp_points").
		First(&child, childID).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return child.XPPoints, nil
}
