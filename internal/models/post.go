// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post published by a child profile.
//
// LikesCount and CommentsCount are denormalized: they must always equal the
// number of like rows and active comment rows for the post. They are written
// only by the counter reconciler, inside the same transaction as the
// interaction change that affected them.
type Post struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ChildID       uint   `gorm:"not null;index" json:"child_id"`
	Child         Child  `gorm:"foreignKey:ChildID" json:"child"`
	Caption       string `gorm:"type:text;not null" json:"caption"`
	ImageURL      string `json:"image_url"`
	LikesCount    int    `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int    `gorm:"not null;default:0" json:"comments_count"`
	// Liked indicates whether the current requesting actor liked this post (computed)
	Liked     bool           `gorm:"-" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
