// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Parent represents a guardian profile in the Kindnest application.
// Parents interact with posts but carry no reputation account.
type Parent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"unique;not null" json:"username"`
	Email       string         `gorm:"unique;not null" json:"email"`
	DisplayName string         `json:"display_name"`
	Password    string         `gorm:"not null" json:"-"`
	Avatar      string         `json:"avatar"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Children    []Child        `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// TableName specifies the table name for GORM.
func (Parent) TableName() string {
	return "parents"
}
