package cache

import (
	"context"
	"fmt"
	"time"

	"kindnest/internal/observability"
)

// Cache key namespaces. These shapes are shared with the profile and feed
// readers; changing them breaks interoperability.
const (
	ProfileKeyPrefix         = "profile:%d"
	ProfileUsernameKeyPrefix = "profile:%s"
	CommentsKeyPrefix        = "comments:%d"
	FeedKeyPrefix            = "feed:posts:"
)

// TTLs. Comment and feed lists ride a short TTL as a safety net on top of
// explicit invalidation. Profile snapshots have no TTL and rely entirely on
// explicit invalidation.
const (
	CommentsTTL = 5 * time.Minute
	FeedTTL     = 2 * time.Minute
	ProfileTTL  = 0
)

var cacheLog = observability.NewCacheLogger()

// ProfileKey returns the cache key for a child profile snapshot by id.
func ProfileKey(childID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, childID)
}

// ProfileUsernameKey returns the cache key for a child profile snapshot by username.
func ProfileUsernameKey(username string) string {
	return fmt.Sprintf(ProfileUsernameKeyPrefix, username)
}

// CommentsKey returns the cache key for a post's comment list.
func CommentsKey(postID uint) string {
	return fmt.Sprintf(CommentsKeyPrefix, postID)
}

// FeedKey returns the cache key for one page of the post feed.
func FeedKey(limit, offset int) string {
	return fmt.Sprintf(FeedKeyPrefix+"%d:%d", limit, offset)
}

// Invalidate deletes a single cache key. Best-effort: failures are counted,
// logged, and swallowed — staleness is preferred over failing the write that
// triggered the invalidation.
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, key).Err(); err != nil {
		observability.CacheInvalidationFailures.WithLabelValues(namespaceOf(key)).Inc()
		cacheLog.LogInvalidationFailure(ctx, key, err)
	}
}

// InvalidatePrefix deletes every key under the given prefix using SCAN, for
// namespaces where the writer cannot know which exact keys exist (e.g. which
// feed page contains a given post). Best-effort like Invalidate.
func InvalidatePrefix(ctx context.Context, prefix string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := client.Del(ctx, iter.Val()).Err(); err != nil {
			observability.CacheInvalidationFailures.WithLabelValues(namespaceOf(prefix)).Inc()
			cacheLog.LogInvalidationFailure(ctx, iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		observability.CacheInvalidationFailures.WithLabelValues(namespaceOf(prefix)).Inc()
		cacheLog.LogInvalidationFailure(ctx, prefix+"*", err)
	}
}

// InvalidateProfile drops both cache entries for a child profile: the id key
// and the username alias.
func InvalidateProfile(ctx context.Context, childID uint, username string) {
	Invalidate(ctx, ProfileKey(childID))
	if username != "" {
		Invalidate(ctx, ProfileUsernameKey(username))
	}
}

// InvalidateComments drops the cached comment list for a post.
func InvalidateComments(ctx context.Context, postID uint) {
	Invalidate(ctx, CommentsKey(postID))
}

// InvalidateFeed drops every cached feed page.
func InvalidateFeed(ctx context.Context) {
	InvalidatePrefix(ctx, FeedKeyPrefix)
}

func namespaceOf(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
