package repository

import (
	"context"

	"kindnest/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines persistence operations for like rows. Mutations are
// expected to run inside the same transaction as the counter recompute that
// follows them; construct the repository over the tx handle for those.
type LikeRepository interface {
	Exists(ctx context.Context, actor models.Actor, postID uint) (bool, error)
	Create(ctx context.Context, actor models.Actor, postID uint) error
	Delete(ctx context.Context, actor models.Actor, postID uint) error
	LikedPostIDs(ctx context.Context, actor models.Actor, postIDs []uint) ([]uint, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Exists(ctx context.Context, actor models.Actor, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("actor_kind = ? AND actor_id = ? AND post_id = ?", actor.Kind, actor.ID, postID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *likeRepository) Create(ctx context.Context, actor models.Actor, postID uint) error {
	like := models.Like{
		ActorKind: actor.Kind,
		ActorID:   actor.ID,
		PostID:    postID,
	}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		// A unique violation means a concurrent toggle won the race; the
		// desired end state (row exists) already holds.
		if IsUniqueViolation(err) {
			return nil
		}
		return classifyWriteError(err, "Post")
	}
	return nil
}

// LikedPostIDs returns the subset of postIDs the actor has liked, for
// stamping the personalized like flag onto a viewer-neutral page of posts.
func (r *likeRepository) LikedPostIDs(ctx context.Context, actor models.Actor, postIDs []uint) ([]uint, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("actor_kind = ? AND actor_id = ? AND post_id IN ?", actor.Kind, actor.ID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *likeRepository) Delete(ctx context.Context, actor models.Actor, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("actor_kind = ? AND actor_id = ? AND post_id = ?", actor.Kind, actor.ID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
