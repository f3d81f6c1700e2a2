package service

import (
	"context"
	"log/slog"

	"kindnest/internal/cache"
	"kindnest/internal/models"
	"kindnest/internal/observability"
	"kindnest/internal/repository"
	"kindnest/internal/validation"

	"gorm.io/gorm"
)

// Fixed reputation deltas per interaction. A like or comment awards the post
// owner; a follow awards the followed child. The acting side never earns XP
// for its own interaction.
const (
	XPPerLike    = 5
	XPPerComment = 5
	XPPerFollow  = 15
)

// EngagementService is the single entry point for interaction mutations:
// likes, comments, and follows, together with the counter and reputation
// side effects they imply.
//
// Each mutation runs the relation write, the counter recompute, and the
// reputation delta inside one transaction, with a row lock on the target
// post, so concurrent toggles on the same pair serialize instead of racing.
// Cache invalidation happens after commit and is best-effort.
type EngagementService struct {
	db *gorm.DB
}

// NewEngagementService creates an EngagementService over the given database
// handle. The handle is used to open a transaction per mutation.
func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{db: db}
}

// LikeResult reports the post's reconciled like count and the caller's new
// like state after a toggle.
type LikeResult struct {
	LikesCount int  `json:"likes_count"`
	IsLiked    bool `json:"is_liked"`
}

// CommentResult reports the created comment's opaque id and the post's
// reconciled comment count.
type CommentResult struct {
	CommentID     string `json:"comment_id"`
	CommentsCount int    `json:"comments_count"`
}

// FollowResult reports the caller's new follow state after a toggle.
type FollowResult struct {
	IsFollowing bool `json:"is_following"`
}

// ToggleLike flips the caller's like on a post. The first call creates the
// like and awards the post owner XPPerLike; the second removes it and takes
// the award back, clamped at zero.
func (s *EngagementService) ToggleLike(ctx context.Context, actor models.Actor, postID uint) (*LikeResult, error) {
	if !actor.Kind.Valid() {
		return nil, models.NewUnauthorizedError("Must be logged in")
	}

	var (
		result        LikeResult
		ownerID       uint
		ownerUsername string
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		post, err := repository.GetPostForUpdate(tx, postID)
		if err != nil {
			// A like references the post rather than addressing it, so a
			// vanished post is a referential failure, not a missing resource.
			if models.ErrorCode(err) == models.CodeNotFound {
				return models.NewInvalidReferenceError("Post no longer exists", err)
			}
			return err
		}
		ownerID = post.ChildID

		likes := repository.NewLikeRepository(tx)
		counters := repository.NewCounterRepository(tx)
		reputation := repository.NewReputationRepository(tx)

		liked, err := likes.Exists(ctx, actor, postID)
		if err != nil {
			return err
		}

		if liked {
			if err := likes.Delete(ctx, actor, postID); err != nil {
				return err
			}
		} else {
			if err := likes.Create(ctx, actor, postID); err != nil {
				return err
			}
		}

		count, err := counters.ReconcileLikes(ctx, postID)
		if err != nil {
			return err
		}

		delta := XPPerLike
		tally := 1
		if liked {
			delta = -XPPerLike
			tally = -1
		}
		if err := reputation.AddXP(ctx, post.ChildID, delta, "like"); err != nil {
			return err
		}
		if err := reputation.AdjustLikesReceived(ctx, post.ChildID, tally); err != nil {
			return err
		}

		var owner models.Child
		if err := tx.Select("username").First(&owner, post.ChildID).Error; err != nil {
			// The username-keyed profile entry has no TTL, so a failed
			// lookup here leaves it stale until the next invalidation.
			observability.GlobalLogger.WarnContext(ctx, "owner username lookup failed; username profile key left stale",
				slog.Uint64("child_id", uint64(post.ChildID)),
				slog.String("error", err.Error()),
			)
		} else {
			ownerUsername = owner.Username
		}

		result = LikeResult{LikesCount: int(count), IsLiked: !liked}
		return nil
	})
	if err != nil {
		observability.RecordLedgerOperation("toggle_like", models.ErrorCode(err))
		return nil, err
	}

	cache.InvalidateProfile(ctx, ownerID, ownerUsername)
	observability.RecordLedgerOperation("toggle_like", "ok")
	return &result, nil
}

// HasLiked reports whether the actor currently likes the post. It fails
// closed: anonymous callers and lookup errors both read as false.
func (s *EngagementService) HasLiked(ctx context.Context, actor models.Actor, postID uint) bool {
	if !actor.Kind.Valid() {
		return false
	}
	liked, err := repository.NewLikeRepository(s.db).Exists(ctx, actor, postID)
	if err != nil {
		return false
	}
	return liked
}

// AddComment validates and persists a comment on a post, awarding XPPerComment
// to the post owner. Child commenters additionally have their comments-made
// tally incremented; parent commenters earn nothing for themselves.
func (s *EngagementService) AddComment(ctx context.Context, actor models.Actor, postID uint, content string) (*CommentResult, error) {
	if !actor.Kind.Valid() {
		return nil, models.NewUnauthorizedError("Must be logged in")
	}
	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, err
	}

	var result CommentResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		post, err := repository.GetPostForUpdate(tx, postID)
		if err != nil {
			return err
		}

		comments := repository.NewCommentRepository(tx)
		counters := repository.NewCounterRepository(tx)
		reputation := repository.NewReputationRepository(tx)

		comment := &models.Comment{
			PublicID: models.NewCommentPublicID(),
			PostID:   postID,
			Content:  content,
			IsActive: true,
		}
		switch actor.Kind {
		case models.ActorKindChild:
			id := actor.ID
			comment.ChildID = &id
		case models.ActorKindParent:
			id := actor.ID
			comment.ParentID = &id
		}
		if err := comments.Create(ctx, comment); err != nil {
			return err
		}

		count, err := counters.ReconcileComments(ctx, postID)
		if err != nil {
			return err
		}

		if err := reputation.AddXP(ctx, post.ChildID, XPPerComment, "comment"); err != nil {
			return err
		}
		if actor.IsChild() {
			if err := reputation.AdjustCommentsMade(ctx, actor.ID, 1); err != nil {
				return err
			}
		}

		result = CommentResult{CommentID: comment.PublicID, CommentsCount: int(count)}
		return nil
	})
	if err != nil {
		observability.RecordLedgerOperation("add_comment", models.ErrorCode(err))
		return nil, err
	}

	cache.InvalidateComments(ctx, postID)
	cache.InvalidateFeed(ctx)
	observability.RecordLedgerOperation("add_comment", "ok")
	return &result, nil
}

// DeleteComment removes a comment the actor authored, reversing the
// reputation awarded when it was added.
func (s *EngagementService) DeleteComment(ctx context.Context, actor models.Actor, commentID string) (*CommentResult, error) {
	if !actor.Kind.Valid() {
		return nil, models.NewUnauthorizedError("Must be logged in")
	}

	var (
		result CommentResult
		postID uint
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		comments := repository.NewCommentRepository(tx)
		counters := repository.NewCounterRepository(tx)
		reputation := repository.NewReputationRepository(tx)

		comment, err := comments.GetByPublicID(ctx, commentID)
		if err != nil {
			return err
		}
		if !comment.OwnedBy(actor) {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
		postID = comment.PostID

		post, err := repository.GetPostForUpdate(tx, comment.PostID)
		if err != nil {
			return err
		}

		// The fetch above ran before the post lock, so a concurrent delete
		// may have won the row in between. Only the delete that removes it
		// reverses the award.
		removed, err := comments.Delete(ctx, comment.ID)
		if err != nil {
			return err
		}
		if !removed {
			return models.NewNotFoundError("Comment", commentID)
		}

		count, err := counters.ReconcileComments(ctx, comment.PostID)
		if err != nil {
			return err
		}

		if err := reputation.AddXP(ctx, post.ChildID, -XPPerComment, "comment"); err != nil {
			return err
		}
		if actor.IsChild() {
			if err := reputation.AdjustCommentsMade(ctx, actor.ID, -1); err != nil {
				return err
			}
		}

		result = CommentResult{CommentID: comment.PublicID, CommentsCount: int(count)}
		return nil
	})
	if err != nil {
		observability.RecordLedgerOperation("delete_comment", models.ErrorCode(err))
		return nil, err
	}

	cache.InvalidateComments(ctx, postID)
	cache.InvalidateFeed(ctx)
	observability.RecordLedgerOperation("delete_comment", "ok")
	return &result, nil
}

// ListComments returns the post's active comments newest-first, cache-through
// with a short TTL.
func (s *EngagementService) ListComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	var views []models.CommentView
	err := cache.Aside(ctx, cache.CommentsKey(postID), &views, cache.CommentsTTL, func() error {
		comments, err := repository.NewCommentRepository(s.db).ListActiveByPost(ctx, postID)
		if err != nil {
			return err
		}
		views = make([]models.CommentView, 0, len(comments))
		for _, c := range comments {
			views = append(views, c.View())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ToggleFollow flips the directed follow relation from the actor to the
// target. Following a child awards the child XPPerFollow; unfollowing takes
// it back, clamped at zero. Self-follows are rejected before any write.
func (s *EngagementService) ToggleFollow(ctx context.Context, actor models.Actor, target models.Actor) (*FollowResult, error) {
	if !actor.Kind.Valid() {
		return nil, models.NewUnauthorizedError("Must be logged in")
	}
	if !target.Kind.Valid() {
		return nil, models.NewValidationError("Unknown follow target kind")
	}
	if actor == target {
		return nil, models.NewSelfFollowError()
	}

	var (
		result         FollowResult
		targetUsername string
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		follows := repository.NewFollowRepository(tx)
		reputation := repository.NewReputationRepository(tx)

		// The target row must exist before any relation write so a vanished
		// target surfaces as InvalidReference rather than a dangling row.
		switch target.Kind {
		case models.ActorKindChild:
			var child models.Child
			if err := tx.Select("username").First(&child, target.ID).Error; err != nil {
				return models.NewInvalidReferenceError("Follow target no longer exists", err)
			}
			targetUsername = child.Username
		case models.ActorKindParent:
			var parent models.Parent
			if err := tx.Select("id").First(&parent, target.ID).Error; err != nil {
				return models.NewInvalidReferenceError("Follow target no longer exists", err)
			}
		}

		following, err := follows.Exists(ctx, actor, target)
		if err != nil {
			return err
		}

		// A concurrent toggle may have flipped the pair between the read and
		// the write; the repository reports whether a row actually changed,
		// and the reputation delta applies only then.
		var changed bool
		if following {
			changed, err = follows.Delete(ctx, actor, target)
		} else {
			changed, err = follows.Create(ctx, actor, target)
		}
		if err != nil {
			return err
		}

		if target.IsChild() && changed {
			delta := XPPerFollow
			if following {
				delta = -XPPerFollow
			}
			if err := reputation.AddXP(ctx, target.ID, delta, "follow"); err != nil {
				return err
			}
		}

		result = FollowResult{IsFollowing: !following}
		return nil
	})
	if err != nil {
		observability.RecordLedgerOperation("toggle_follow", models.ErrorCode(err))
		return nil, err
	}

	if target.IsChild() {
		cache.InvalidateProfile(ctx, target.ID, targetUsername)
	}
	if actor.IsChild() {
		// The follower's own profile carries a following count.
		cache.Invalidate(ctx, cache.ProfileKey(actor.ID))
	}
	observability.RecordLedgerOperation("toggle_follow", "ok")
	return &result, nil
}

// FollowStatus reports whether the actor currently follows the target. It
// fails closed: anonymous callers and lookup errors both read as false.
func (s *EngagementService) FollowStatus(ctx context.Context, actor models.Actor, target models.Actor) bool {
	if !actor.Kind.Valid() || !target.Kind.Valid() {
		return false
	}
	following, err := repository.NewFollowRepository(s.db).Exists(ctx, actor, target)
	if err != nil {
		return false
	}
	return following
}
