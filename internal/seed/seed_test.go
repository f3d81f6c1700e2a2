package seed

import (
	"testing"

	"kindnest/internal/database"
	"kindnest/internal/models"
	"kindnest/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestSeedCreatesRequestedVolume(t *testing.T) {
	db := setupSeedTestDB(t)
	opts := Options{
		NumParents:  2,
		NumChildren: 4,
		NumPosts:    6,
		MaxDays:     7,
		SkipBcrypt:  true,
	}

	require.NoError(t, NewSeeder(db, opts).Seed(opts))

	var parents, children, posts, likes, comments, follows int64
	require.NoError(t, db.Model(&models.Parent{}).Count(&parents).Error)
	require.NoError(t, db.Model(&models.Child{}).Count(&children).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Like{}).Count(&likes).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.Follow{}).Count(&follows).Error)

	assert.Equal(t, int64(2), parents)
	assert.Equal(t, int64(4), children)
	assert.Equal(t, int64(6), posts)
	assert.NotZero(t, likes)
	assert.NotZero(t, comments)
	assert.NotZero(t, follows)
}

func TestSeedKeepsCountersConsistent(t *testing.T) {
	db := setupSeedTestDB(t)
	opts := Options{
		NumParents:  1,
		NumChildren: 3,
		NumPosts:    5,
		MaxDays:     3,
		SkipBcrypt:  true,
	}
	require.NoError(t, NewSeeder(db, opts).Seed(opts))

	// Every denormalized counter must equal the row count it summarizes.
	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.NotEmpty(t, posts)
	for _, post := range posts {
		var likeRows, commentRows int64
		require.NoError(t, db.Model(&models.Like{}).
			Where("post_id = ?", post.ID).Count(&likeRows).Error)
		require.NoError(t, db.Model(&models.Comment{}).
			Where("post_id = ? AND is_active = ?", post.ID, true).Count(&commentRows).Error)
		assert.Equal(t, int(likeRows), post.LikesCount, "post %d likes", post.ID)
		assert.Equal(t, int(commentRows), post.CommentsCount, "post %d comments", post.ID)
	}
}

func TestSeedAwardsReputation(t *testing.T) {
	db := setupSeedTestDB(t)
	opts := Options{
		NumChildren: 3,
		NumPosts:    3,
		MaxDays:     3,
		SkipBcrypt:  true,
	}
	require.NoError(t, NewSeeder(db, opts).Seed(opts))

	// Likes, comments, and the follow ring all award XP; at least one child
	// must have a positive balance and none may be negative.
	var children []models.Child
	require.NoError(t, db.Find(&children).Error)
	require.NotEmpty(t, children)

	total := 0
	for _, child := range children {
		assert.GreaterOrEqual(t, child.XPPoints, 0)
		total += child.XPPoints
	}
	assert.Positive(t, total)
}

func TestSeedWithoutChildren(t *testing.T) {
	db := setupSeedTestDB(t)
	opts := Options{NumParents: 2, SkipBcrypt: true}

	require.NoError(t, NewSeeder(db, opts).Seed(opts))

	var posts int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Zero(t, posts)
}

func TestFactoryDuplicateFollowAwardsXPOnce(t *testing.T) {
	db := setupSeedTestDB(t)
	factory := NewFactory(db, Options{SkipBcrypt: true})

	follower, err := factory.CreateChild(nil)
	require.NoError(t, err)
	target, err := factory.CreateChild(nil)
	require.NoError(t, err)

	followerActor := models.ChildActor(follower.ID)
	targetActor := models.ChildActor(target.ID)
	require.NoError(t, factory.CreateFollow(followerActor, targetActor))
	require.NoError(t, factory.CreateFollow(followerActor, targetActor))

	var rows int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	var refreshed models.Child
	require.NoError(t, db.First(&refreshed, target.ID).Error)
	assert.Equal(t, service.XPPerFollow, refreshed.XPPoints)
}

func TestFactorySelfFollowRefused(t *testing.T) {
	db := setupSeedTestDB(t)
	factory := NewFactory(db, Options{SkipBcrypt: true})

	child, err := factory.CreateChild(nil)
	require.NoError(t, err)

	actor := models.ChildActor(child.ID)
	require.Error(t, factory.CreateFollow(actor, actor))

	var rows int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&rows).Error)
	assert.Zero(t, rows)
}
