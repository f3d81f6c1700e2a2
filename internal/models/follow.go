// Package models contains data structures for the application's domain models.
package models

import "time"

// Follow represents a directed follow relation between two actors.
//
// The relation is asymmetric: A following B says nothing about B following
// A. The directed quadruple is enforced unique at the database level, and
// self-follows (same kind and id on both sides) are rejected before any
// write. Rows are hard-deleted on unfollow.
type Follow struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FollowerKind  ActorKind `gorm:"type:varchar(10);not null;uniqueIndex:idx_follow_pair" json:"follower_kind"`
	FollowerID    uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingKind ActorKind `gorm:"type:varchar(10);not null;uniqueIndex:idx_follow_pair" json:"following_kind"`
	FollowingID   uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"following_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}

// Follower returns the follower side as an Actor.
func (f *Follow) Follower() Actor {
	return Actor{Kind: f.FollowerKind, ID: f.FollowerID}
}

// Following returns the followed side as an Actor.
func (f *Follow) Following() Actor {
	return Actor{Kind: f.FollowingKind, ID: f.FollowingID}
}
