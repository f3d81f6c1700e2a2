package service

import (
	"context"
	"net/url"
	"strings"

	"kindnest/internal/models"
	"kindnest/internal/repository"
)

const maxCaptionLen = 2000

// PostService covers the post surface around the interaction ledger:
// publishing, feed reads, and owner-initiated deletion. Only child profiles
// own posts.
type PostService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
}

type CreatePostInput struct {
	ChildID  uint
	Caption  string
	ImageURL string
}

type ListPostsInput struct {
	Limit  int
	Offset int
	Viewer models.Actor
}

func NewPostService(postRepo repository.PostRepository, likeRepo repository.LikeRepository) *PostService {
	return &PostService{postRepo: postRepo, likeRepo: likeRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Caption) == "" {
		return nil, models.NewValidationError("Caption is required")
	}
	if len(in.Caption) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 2000 characters)")
	}
	if in.ImageURL != "" {
		if _, err := url.ParseRequestURI(in.ImageURL); err != nil {
			return nil, models.NewValidationError("image_url must be a valid URL")
		}
	}

	post := &models.Post{
		ChildID:  in.ChildID,
		Caption:  in.Caption,
		ImageURL: in.ImageURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, models.ChildActor(in.ChildID))
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewer models.Actor) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewer)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	s.markLiked(ctx, posts, in.Viewer)
	return posts, nil
}

func (s *PostService) GetChildPosts(ctx context.Context, childID uint, limit, offset int, viewer models.Actor) ([]*models.Post, error) {
	posts, err := s.postRepo.GetByChildID(ctx, childID, limit, offset)
	if err != nil {
		return nil, err
	}
	s.markLiked(ctx, posts, viewer)
	return posts, nil
}

// markLiked stamps the viewer's like state onto each post. Cached feed pages
// are viewer-neutral, so the personalized bit is recomputed after the fetch.
func (s *PostService) markLiked(ctx context.Context, posts []*models.Post, viewer models.Actor) {
	if !viewer.Kind.Valid() || len(posts) == 0 {
		return
	}
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	likedIDs, err := s.likeRepo.LikedPostIDs(ctx, viewer, postIDs)
	if err != nil {
		return
	}
	liked := make(map[uint]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}
	for _, p := range posts {
		p.Liked = liked[p.ID]
	}
}

func (s *PostService) DeletePost(ctx context.Context, childID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, models.ChildActor(childID))
	if err != nil {
		return err
	}
	if post.ChildID != childID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
