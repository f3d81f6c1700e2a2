package repository

import (
	"context"
	"testing"

	"kindnest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileLikesMatchesRowCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCounterRepository(db)
	ctx := context.Background()

	owner := mustCreateChild(t, db, "owner")
	post := mustCreatePost(t, db, owner.ID)

	for _, actor := range []models.Actor{
		models.ChildActor(mustCreateChild(t, db, "liker1").ID),
		models.ChildActor(mustCreateChild(t, db, "liker2").ID),
		models.ParentActor(mustCreateParent(t, db, "p1").ID),
	} {
		require.NoError(t, db.Create(&models.Like{
			ActorKind: actor.Kind, ActorID: actor.ID, PostID: post.ID,
		}).Error)
	}

	count, err := repo.ReconcileLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, 3, reloaded.LikesCount)
}

func TestReconcileLikesRepairsDriftedCounter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCounterRepository(db)

	owner := mustCreateChild(t, db, "owner")
	post := mustCreatePost(t, db, owner.ID)

	// Seed a counter that disagrees with the (empty) like table.
	require.NoError(t, db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		Update("likes_count", 42).Error)

	count, err := repo.ReconcileLikes(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Zero(t, reloaded.LikesCount)
}

func TestReconcileCommentsSkipsInactiveRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCounterRepository(db)

	owner := mustCreateChild(t, db, "owner")
	author := mustCreateChild(t, db, "author")
	post := mustCreatePost(t, db, owner.ID)

	active := &models.Comment{
		PublicID: models.NewCommentPublicID(),
		PostID:   post.ID, ChildID: &author.ID,
		Content: "visible", IsActive: true,
	}
	hidden := &models.Comment{
		PublicID: models.NewCommentPublicID(),
		PostID:   post.ID, ChildID: &author.ID,
		Content: "hidden", IsActive: false,
	}
	require.NoError(t, db.Create(active).Error)
	require.NoError(t, db.Create(hidden).Error)

	count, err := repo.ReconcileComments(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, 1, reloaded.CommentsCount)
}
