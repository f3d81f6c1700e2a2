package repository

import (
	"context"
	"errors"

	"kindnest/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comment rows.
// Comments are soft-disabled via IsActive for listing purposes but
// owner-initiated deletion removes the row outright.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByPublicID(ctx context.Context, publicID string) (*models.Comment, error)
	// Delete reports whether a row was actually removed so callers can
	// reverse the comment's reputation award exactly once.
	Delete(ctx context.Context, id uint) (bool, error)
	ListActiveByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return classifyWriteError(err, "Post")
	}
	return nil
}

func (r *commentRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("Child").
		Preload("Parent").
		Where("public_id = ?", publicID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", publicID)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListActiveByPost returns the post's active comments newest-first with the
// author display fields preloaded.
func (r *commentRepository) ListActiveByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Child").
		Preload("Parent").
		Where("post_id = ? AND is_active = ?", postID, true).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
