package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"kindnest/internal/database"
	"kindnest/internal/models"
	"kindnest/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupEngagementTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func createTestChild(t *testing.T, db *gorm.DB, username string, xp int) *models.Child {
	t.Helper()
	child := &models.Child{Username: username, DisplayName: username, Password: "pw", XPPoints: xp}
	require.NoError(t, db.Create(child).Error)
	return child
}

func createTestParent(t *testing.T, db *gorm.DB, username string) *models.Parent {
	t.Helper()
	parent := &models.Parent{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "pw",
	}
	require.NoError(t, db.Create(parent).Error)
	return parent
}

func createTestPost(t *testing.T, db *gorm.DB, owner *models.Child) *models.Post {
	t.Helper()
	post := &models.Post{ChildID: owner.ID, Caption: "hello"}
	require.NoError(t, db.Create(post).Error)
	return post
}

func reloadChild(t *testing.T, db *gorm.DB, id uint) *models.Child {
	t.Helper()
	var child models.Child
	require.NoError(t, db.First(&child, id).Error)
	return &child
}

func reloadPost(t *testing.T, db *gorm.DB, id uint) *models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, db.First(&post, id).Error)
	return &post
}

func TestToggleLikeAwardsOwnerAndReconcilesCounter(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	liker := createTestChild(t, db, "c1", 0)
	owner := createTestChild(t, db, "c2", 10)
	post := createTestPost(t, db, owner)

	result, err := svc.ToggleLike(ctx, models.ChildActor(liker.ID), post.ID)
	require.NoError(t, err)
	assert.True(t, result.IsLiked)
	assert.Equal(t, 1, result.LikesCount)

	assert.Equal(t, 15, reloadChild(t, db, owner.ID).XPPoints)
	assert.Equal(t, 1, reloadChild(t, db, owner.ID).TotalLikesReceived)
	assert.Equal(t, 1, reloadPost(t, db, post.ID).LikesCount)

	// Liker earns nothing for their own action.
	assert.Equal(t, 0, reloadChild(t, db, liker.ID).XPPoints)

	// Second toggle returns to the original state.
	result, err = svc.ToggleLike(ctx, models.ChildActor(liker.ID), post.ID)
	require.NoError(t, err)
	assert.False(t, result.IsLiked)
	assert.Equal(t, 0, result.LikesCount)

	assert.Equal(t, 10, reloadChild(t, db, owner.ID).XPPoints)
	assert.Equal(t, 0, reloadChild(t, db, owner.ID).TotalLikesReceived)
	assert.Equal(t, 0, reloadPost(t, db, post.ID).LikesCount)
}

func TestToggleLikeCounterEqualsGroundTruth(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	owner := createTestChild(t, db, "owner", 0)
	post := createTestPost(t, db, owner)

	actors := []models.Actor{
		models.ChildActor(createTestChild(t, db, "a", 0).ID),
		models.ChildActor(createTestChild(t, db, "b", 0).ID),
		models.ParentActor(createTestParent(t, db, "p").ID),
	}
	for _, actor := range actors {
		_, err := svc.ToggleLike(ctx, actor, post.ID)
		require.NoError(t, err)
	}
	// One actor untoggles.
	_, err := svc.ToggleLike(ctx, actors[1], post.ID)
	require.NoError(t, err)

	var rows int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&rows).Error)
	assert.Equal(t, int(rows), reloadPost(t, db, post.ID).LikesCount)
	assert.Equal(t, 2, reloadPost(t, db, post.ID).LikesCount)
}

func TestToggleLikeMissingPost(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)

	liker := createTestChild(t, db, "c1", 0)
	_, err := svc.ToggleLike(context.Background(), models.ChildActor(liker.ID), 9999)
	require.Error(t, err)
	assert.Equal(t, models.CodeInvalidReference, models.ErrorCode(err))
}

func TestToggleLikeLogsOwnerUsernameLookupMiss(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	liker := createTestChild(t, db, "c1", 0)
	owner := createTestChild(t, db, "c2", 0)
	post := createTestPost(t, db, owner)

	// Drop the owner row so the username used for the profile cache key
	// cannot be resolved.
	require.NoError(t, db.Unscoped().Delete(&models.Child{}, owner.ID).Error)

	var buf bytes.Buffer
	prev := observability.GlobalLogger
	observability.GlobalLogger = &observability.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}
	t.Cleanup(func() { observability.GlobalLogger = prev })

	result, err := svc.ToggleLike(ctx, models.ChildActor(liker.ID), post.ID)
	require.NoError(t, err)
	assert.True(t, result.IsLiked)
	assert.Contains(t, buf.String(), "owner username lookup failed")
}

func TestToggleLikeRequiresActor(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)

	_, err := svc.ToggleLike(context.Background(), models.Actor{}, 1)
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))
}

func TestHasLikedFailsClosed(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	liker := createTestChild(t, db, "c1", 0)
	owner := createTestChild(t, db, "c2", 0)
	post := createTestPost(t, db, owner)

	assert.False(t, svc.HasLiked(ctx, models.Actor{}, post.ID))
	assert.False(t, svc.HasLiked(ctx, models.ChildActor(liker.ID), post.ID))

	_, err := svc.ToggleLike(ctx, models.ChildActor(liker.ID), post.ID)
	require.NoError(t, err)
	assert.True(t, svc.HasLiked(ctx, models.ChildActor(liker.ID), post.ID))
}

func TestAddCommentAwardsOwnerAndStampsAuthor(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	commenter := createTestChild(t, db, "c1", 0)
	owner := createTestChild(t, db, "c2", 0)
	post := createTestPost(t, db, owner)

	result, err := svc.AddComment(ctx, models.ChildActor(commenter.ID), post.ID, "nice post!")
	require.NoError(t, err)
	assert.NotEmpty(t, result.CommentID)
	assert.Equal(t, 1, result.CommentsCount)

	assert.Equal(t, 5, reloadChild(t, db, owner.ID).XPPoints)
	assert.Equal(t, 1, reloadChild(t, db, commenter.ID).TotalCommentsMade)
	assert.Equal(t, 1, reloadPost(t, db, post.ID).CommentsCount)

	var comment models.Comment
	require.NoError(t, db.Where("public_id = ?", result.CommentID).First(&comment).Error)
	require.NotNil(t, comment.ChildID)
	assert.Equal(t, commenter.ID, *comment.ChildID)
	assert.Nil(t, comment.ParentID)
}

func TestParentCommentAwardsOwnerButNotParent(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	parent := createTestParent(t, db, "mom")
	owner := createTestChild(t, db, "kid", 0)
	post := createTestPost(t, db, owner)

	result, err := svc.AddComment(ctx, models.ParentActor(parent.ID), post.ID, "proud of you")
	require.NoError(t, err)
	assert.Equal(t, 1, result.CommentsCount)

	assert.Equal(t, 5, reloadChild(t, db, owner.ID).XPPoints)
	// Parent commenters leave no reputation trace of their own.

	var comment models.Comment
	require.NoError(t, db.Where("public_id = ?", result.CommentID).First(&comment).Error)
	require.NotNil(t, comment.ParentID)
	assert.Equal(t, parent.ID, *comment.ParentID)
	assert.Nil(t, comment.ChildID)
}

func TestAddCommentRejectsOversizedContent(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	parent := createTestParent(t, db, "mom")
	owner := createTestChild(t, db, "kid", 0)
	post := createTestPost(t, db, owner)

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.AddComment(ctx, models.ParentActor(parent.ID), post.ID, string(long))
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	var rows int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&rows).Error)
	assert.Zero(t, rows)
	assert.Equal(t, 0, reloadPost(t, db, post.ID).CommentsCount)
	assert.Equal(t, 0, reloadChild(t, db, owner.ID).XPPoints)
}

func TestAddCommentRejectsEmptyContent(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)

	child := createTestChild(t, db, "c1", 0)
	post := createTestPost(t, db, child)

	_, err := svc.AddComment(context.Background(), models.ChildActor(child.ID), post.ID, "")
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestDeleteCommentReversesAwardAndEnforcesOwnership(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	commenter := createTestChild(t, db, "c1", 0)
	other := createTestChild(t, db, "c3", 0)
	owner := createTestChild(t, db, "c2", 0)
	post := createTestPost(t, db, owner)

	created, err := svc.AddComment(ctx, models.ChildActor(commenter.ID), post.ID, "hi")
	require.NoError(t, err)

	// A different actor cannot delete it, and the row stays.
	_, err = svc.DeleteComment(ctx, models.ChildActor(other.ID), created.CommentID)
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))

	var rows int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	// A parent with the same numeric id is still not the owner.
	parent := createTestParent(t, db, "sameid")
	require.Equal(t, commenter.ID, parent.ID)
	_, err = svc.DeleteComment(ctx, models.ParentActor(commenter.ID), created.CommentID)
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))

	// The stamped owner can.
	result, err := svc.DeleteComment(ctx, models.ChildActor(commenter.ID), created.CommentID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CommentsCount)

	assert.Equal(t, 0, reloadChild(t, db, owner.ID).XPPoints)
	assert.Equal(t, 0, reloadChild(t, db, commenter.ID).TotalCommentsMade)
	assert.Equal(t, 0, reloadPost(t, db, post.ID).CommentsCount)

	// Deleting the same comment again is NotFound and must not reverse the
	// award a second time.
	_, err = svc.DeleteComment(ctx, models.ChildActor(commenter.ID), created.CommentID)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	assert.Equal(t, 0, reloadChild(t, db, owner.ID).XPPoints)
	assert.Equal(t, 0, reloadChild(t, db, commenter.ID).TotalCommentsMade)
}

func TestDeleteCommentNotFound(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)

	child := createTestChild(t, db, "c1", 0)
	_, err := svc.DeleteComment(context.Background(), models.ChildActor(child.ID), "nope123456")
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestListCommentsNewestFirst(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	commenter := createTestChild(t, db, "c1", 0)
	owner := createTestChild(t, db, "c2", 0)
	post := createTestPost(t, db, owner)

	first, err := svc.AddComment(ctx, models.ChildActor(commenter.ID), post.ID, "first")
	require.NoError(t, err)
	// Force distinct timestamps under sqlite's clock resolution.
	require.NoError(t, db.Model(&models.Comment{}).
		Where("public_id = ?", first.CommentID).
		Update("created_at", gorm.Expr("datetime('now', '-1 minute')")).Error)

	second, err := svc.AddComment(ctx, models.ChildActor(commenter.ID), post.ID, "second")
	require.NoError(t, err)

	views, err := svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second.CommentID, views[0].ID)
	assert.Equal(t, first.CommentID, views[1].ID)
	assert.Equal(t, "c1", views[0].Author.Username)
	assert.Equal(t, models.ActorKindChild, views[0].Author.Kind)
}

func TestToggleFollowAwardsChildTarget(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	follower := createTestChild(t, db, "a", 0)
	target := createTestChild(t, db, "b", 0)

	result, err := svc.ToggleFollow(ctx, models.ChildActor(follower.ID), models.ChildActor(target.ID))
	require.NoError(t, err)
	assert.True(t, result.IsFollowing)
	assert.Equal(t, 15, reloadChild(t, db, target.ID).XPPoints)

	// Second call unfollows and nets XP back to zero.
	result, err = svc.ToggleFollow(ctx, models.ChildActor(follower.ID), models.ChildActor(target.ID))
	require.NoError(t, err)
	assert.False(t, result.IsFollowing)
	assert.Equal(t, 0, reloadChild(t, db, target.ID).XPPoints)

	var rows int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestToggleFollowParentTargetEarnsNothing(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	follower := createTestChild(t, db, "a", 0)
	target := createTestParent(t, db, "mom")

	result, err := svc.ToggleFollow(ctx, models.ChildActor(follower.ID), models.ParentActor(target.ID))
	require.NoError(t, err)
	assert.True(t, result.IsFollowing)

	var rows int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestToggleFollowRejectsSelfFollow(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)

	child := createTestChild(t, db, "a", 0)
	actor := models.ChildActor(child.ID)

	_, err := svc.ToggleFollow(context.Background(), actor, actor)
	require.Error(t, err)
	assert.Equal(t, models.CodeSelfFollow, models.ErrorCode(err))

	var rows int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestToggleFollowSameIDDifferentKindIsAllowed(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)

	child := createTestChild(t, db, "a", 0)
	parent := createTestParent(t, db, "mom")
	require.Equal(t, child.ID, parent.ID)

	result, err := svc.ToggleFollow(context.Background(),
		models.ParentActor(parent.ID), models.ChildActor(child.ID))
	require.NoError(t, err)
	assert.True(t, result.IsFollowing)
}

func TestToggleFollowMissingTarget(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)

	follower := createTestChild(t, db, "a", 0)
	_, err := svc.ToggleFollow(context.Background(),
		models.ChildActor(follower.ID), models.ChildActor(9999))
	require.Error(t, err)
	assert.Equal(t, models.CodeInvalidReference, models.ErrorCode(err))
}

func TestFollowStatusFailsClosed(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	follower := createTestChild(t, db, "a", 0)
	target := createTestChild(t, db, "b", 0)

	assert.False(t, svc.FollowStatus(ctx, models.Actor{}, models.ChildActor(target.ID)))
	assert.False(t, svc.FollowStatus(ctx, models.ChildActor(follower.ID), models.ChildActor(target.ID)))

	_, err := svc.ToggleFollow(ctx, models.ChildActor(follower.ID), models.ChildActor(target.ID))
	require.NoError(t, err)
	assert.True(t, svc.FollowStatus(ctx, models.ChildActor(follower.ID), models.ChildActor(target.ID)))
}

func TestReputationNeverGoesNegative(t *testing.T) {
	db := setupEngagementTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	liker := createTestChild(t, db, "c1", 0)
	owner := createTestChild(t, db, "c2", 0)
	post := createTestPost(t, db, owner)

	// Like, then drain the owner's XP out of band, then unlike: the revoke
	// clamps at zero instead of going negative.
	_, err := svc.ToggleLike(ctx, models.ChildActor(liker.ID), post.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Child{}).
		Where("id = ?", owner.ID).
		Update("xp_points", 2).Error)

	_, err = svc.ToggleLike(ctx, models.ChildActor(liker.ID), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloadChild(t, db, owner.ID).XPPoints)
}
