package repository

import (
	"context"
	"errors"

	"kindnest/internal/cache"
	"kindnest/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
//
// The denormalized LikesCount/CommentsCount columns on posts are read here
// but never written here; the counter reconciler is their only writer.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewer models.Actor) (*models.Post, error)
	GetByChildID(ctx context.Context, childID uint, limit, offset int) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return classifyWriteError(err, "Post owner")
	}
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewer models.Actor) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Child").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}

	if viewer.Kind.Valid() {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Like{}).
			Where("actor_kind = ? AND actor_id = ? AND post_id = ?", viewer.Kind, viewer.ID, id).
			Count(&count).Error; err == nil {
			post.Liked = count > 0
		}
	}

	return &post, nil
}

func (r *postRepository) GetByChildID(ctx context.Context, childID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Child").
		Where("child_id = ?", childID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// List serves the feed, cache-through per page under the feed:posts:
// namespace. The page TTL is short; writers also pattern-invalidate the
// whole namespace because they cannot know which page holds a given post.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.FeedKey(limit, offset), &posts, cache.FeedTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("Child").
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

// GetPostForUpdate loads a post inside tx with a row lock, serializing
// concurrent interaction toggles on the same post.
func GetPostForUpdate(tx *gorm.DB, postID uint) (*models.Post, error) {
	var post models.Post
	if err := lockForUpdate(tx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}
