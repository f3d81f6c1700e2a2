package service

import (
	"context"

	"kindnest/internal/cache"
	"kindnest/internal/models"
	"kindnest/internal/repository"
)

// ChildProfile is the read shape served (and cached) for a child profile,
// combining the stored reputation account with live relation counts.
type ChildProfile struct {
	ID                 uint   `json:"id"`
	Username           string `json:"username"`
	DisplayName        string `json:"display_name"`
	Avatar             string `json:"avatar"`
	XPPoints           int    `json:"xp_points"`
	TotalCommentsMade  int    `json:"total_comments_made"`
	TotalLikesReceived int    `json:"total_likes_received"`
	FollowersCount     int64  `json:"followers_count"`
	FollowingCount     int64  `json:"following_count"`
}

// ProfileService serves child profile snapshots, cache-through under the
// profile: namespace. Snapshots carry no TTL; the engagement mutations that
// change them invalidate both the id key and the username alias.
type ProfileService struct {
	childRepo  repository.ChildRepository
	followRepo repository.FollowRepository
}

// NewProfileService creates a ProfileService over the given repositories.
func NewProfileService(childRepo repository.ChildRepository, followRepo repository.FollowRepository) *ProfileService {
	return &ProfileService{childRepo: childRepo, followRepo: followRepo}
}

func (s *ProfileService) build(ctx context.Context, child *models.Child) (*ChildProfile, error) {
	actor := models.ChildActor(child.ID)
	followers, err := s.followRepo.CountFollowers(ctx, actor)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &ChildProfile{
		ID:                 child.ID,
		Username:           child.Username,
		DisplayName:        child.DisplayName,
		Avatar:             child.Avatar,
		XPPoints:           child.XPPoints,
		TotalCommentsMade:  child.TotalCommentsMade,
		TotalLikesReceived: child.TotalLikesReceived,
		FollowersCount:     followers,
		FollowingCount:     following,
	}, nil
}

// GetByID returns the profile snapshot for a child id.
func (s *ProfileService) GetByID(ctx context.Context, childID uint) (*ChildProfile, error) {
	var profile ChildProfile
	err := cache.Aside(ctx, cache.ProfileKey(childID), &profile, cache.ProfileTTL, func() error {
		child, err := s.childRepo.GetByID(ctx, childID)
		if err != nil {
			return err
		}
		built, err := s.build(ctx, child)
		if err != nil {
			return err
		}
		profile = *built
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUsername returns the profile snapshot for a child username, cached
// under the username alias key.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*ChildProfile, error) {
	var profile ChildProfile
	err := cache.Aside(ctx, cache.ProfileUsernameKey(username), &profile, cache.ProfileTTL, func() error {
		child, err := s.childRepo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		built, err := s.build(ctx, child)
		if err != nil {
			return err
		}
		profile = *built
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
