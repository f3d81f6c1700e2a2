// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Child represents a supervised child profile in the Kindnest application.
// XPPoints and the interaction tallies are mutated only through the
// reputation repository; they never go negative.
type Child struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Username           string         `gorm:"unique;not null" json:"username"`
	DisplayName        string         `json:"display_name"`
	Password           string         `gorm:"not null" json:"-"`
	Avatar             string         `json:"avatar"`
	ParentID           *uint          `gorm:"index" json:"parent_id,omitempty"`
	Parent             *Parent        `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	XPPoints           int            `gorm:"not null;default:0" json:"xp_points"`
	TotalCommentsMade  int            `gorm:"not null;default:0" json:"total_comments_made"`
	TotalLikesReceived int            `gorm:"not null;default:0" json:"total_likes_received"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Posts              []Post         `gorm:"foreignKey:ChildID" json:"posts,omitempty"`
}

// TableName specifies the table name for GORM.
func (Child) TableName() string {
	return "children"
}
