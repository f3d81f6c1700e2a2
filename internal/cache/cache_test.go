package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestKeyShapes(t *testing.T) {
	assert.Equal(t, "profile:42", ProfileKey(42))
	assert.Equal(t, "profile:robin", ProfileUsernameKey("robin"))
	assert.Equal(t, "comments:7", CommentsKey(7))
	assert.Equal(t, "feed:posts:20:0", FeedKey(20, 0))
}

func TestGetSetJSON(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	type snapshot struct {
		Name string `json:"name"`
		XP   int    `json:"xp"`
	}

	require.NoError(t, SetJSON(ctx, ProfileKey(1), snapshot{Name: "robin", XP: 15}, time.Minute))

	var got snapshot
	found, err := GetJSON(ctx, ProfileKey(1), &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "robin", got.Name)
	assert.Equal(t, 15, got.XP)

	found, err = GetJSON(ctx, ProfileKey(2), &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAsideFetchesOnMissOnly(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *[]string) func() error {
		return func() error {
			fetches++
			*dest = []string{"a", "b"}
			return nil
		}
	}

	var first []string
	require.NoError(t, Aside(ctx, CommentsKey(9), &first, CommentsTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)

	var second []string
	require.NoError(t, Aside(ctx, CommentsKey(9), &second, CommentsTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should be served from cache")
	assert.Equal(t, first, second)
}

func TestInvalidate(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, ProfileKey(3), "snap", 0))
	require.True(t, mr.Exists("profile:3"))

	Invalidate(ctx, ProfileKey(3))
	assert.False(t, mr.Exists("profile:3"))
}

func TestInvalidatePrefixDropsAllFeedPages(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, FeedKey(20, 0), "page0", FeedTTL))
	require.NoError(t, SetJSON(ctx, FeedKey(20, 20), "page1", FeedTTL))
	require.NoError(t, SetJSON(ctx, ProfileKey(1), "snap", 0))

	InvalidateFeed(ctx)

	assert.False(t, mr.Exists("feed:posts:20:0"))
	assert.False(t, mr.Exists("feed:posts:20:20"))
	assert.True(t, mr.Exists("profile:1"), "unrelated namespaces must survive")
}

func TestInvalidateProfileDropsUsernameAlias(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, ProfileKey(5), "snap", 0))
	require.NoError(t, SetJSON(ctx, ProfileUsernameKey("quinn"), "snap", 0))

	InvalidateProfile(ctx, 5, "quinn")

	assert.False(t, mr.Exists("profile:5"))
	assert.False(t, mr.Exists("profile:quinn"))
}

func TestNilClientIsSafe(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var dest string
	found, err := GetJSON(ctx, "missing", &dest)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, "missing", "v", time.Minute))
	Invalidate(ctx, "missing")
	InvalidateFeed(ctx)
}
