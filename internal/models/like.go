// Package models contains data structures for the application's domain models.
package models

import "time"

// Like represents an actor's like on a post.
//
// Existence is binary: a row means "liked", deletion means "not liked".
// The (actor kind, actor id, post id) triple is enforced unique at the
// database level so concurrent toggles cannot produce duplicate rows.
// Likes are hard-deleted on the second toggle; no history is kept.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorKind ActorKind `gorm:"type:varchar(10);not null;uniqueIndex:idx_like_actor_post" json:"actor_kind"`
	ActorID   uint      `gorm:"not null;uniqueIndex:idx_like_actor_post" json:"actor_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_actor_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}
