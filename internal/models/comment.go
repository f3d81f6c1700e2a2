// Package models contains data structures for the application's domain models.
package models

import "time"

// CommentMaxLen is the inclusive upper bound on comment content, in runes.
const CommentMaxLen = 500

// Comment represents a comment on a post.
//
// Exactly one of ChildID or ParentID is set, stamping the author at write
// time. Ownership checks match the caller's actor id against the stamped
// field for their kind, never against display fields. PublicID is the
// opaque identifier exposed to clients, distinct from the primary key.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	PublicID   string    `gorm:"size:12;not null;uniqueIndex" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	ChildID    *uint     `gorm:"index" json:"child_id,omitempty"`
	ParentID   *uint     `gorm:"index" json:"parent_id,omitempty"`
	Content    string    `gorm:"size:500;not null" json:"content"`
	IsActive   bool      `gorm:"not null;default:true" json:"-"`
	IsEdited   bool      `gorm:"not null;default:false" json:"is_edited"`
	LikesCount int       `gorm:"not null;default:0" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Post   Post    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Child  *Child  `gorm:"foreignKey:ChildID" json:"-"`
	Parent *Parent `gorm:"foreignKey:ParentID" json:"-"`
}

// Author returns the stamped author identity.
func (c *Comment) Author() Actor {
	if c.ChildID != nil {
		return ChildActor(*c.ChildID)
	}
	if c.ParentID != nil {
		return ParentActor(*c.ParentID)
	}
	return Actor{}
}

// OwnedBy reports whether the given actor is the comment's stamped author.
func (c *Comment) OwnedBy(actor Actor) bool {
	switch actor.Kind {
	case ActorKindChild:
		return c.ChildID != nil && *c.ChildID == actor.ID
	case ActorKindParent:
		return c.ParentID != nil && *c.ParentID == actor.ID
	default:
		return false
	}
}

// CommentAuthor carries the minimal display fields joined into a comment view.
type CommentAuthor struct {
	Kind        ActorKind `json:"kind"`
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Avatar      string    `json:"avatar"`
}

// CommentView is the read shape served (and cached) for comment lists.
type CommentView struct {
	ID         string        `json:"id"`
	PostID     uint          `json:"post_id"`
	Content    string        `json:"content"`
	IsEdited   bool          `json:"is_edited"`
	LikesCount int           `json:"likes_count"`
	CreatedAt  time.Time     `json:"created_at"`
	Author     CommentAuthor `json:"author"`
}

// View converts a comment with preloaded author into its read shape.
func (c *Comment) View() CommentView {
	v := CommentView{
		ID:         c.PublicID,
		PostID:     c.PostID,
		Content:    c.Content,
		IsEdited:   c.IsEdited,
		LikesCount: c.LikesCount,
		CreatedAt:  c.CreatedAt,
	}
	switch {
	case c.Child != nil:
		v.Author = CommentAuthor{
			Kind:        ActorKindChild,
			ID:          c.Child.ID,
			Username:    c.Child.Username,
			DisplayName: c.Child.DisplayName,
			Avatar:      c.Child.Avatar,
		}
	case c.Parent != nil:
		v.Author = CommentAuthor{
			Kind:        ActorKindParent,
			ID:          c.Parent.ID,
			Username:    c.Parent.Username,
			DisplayName: c.Parent.DisplayName,
			Avatar:      c.Parent.Avatar,
		}
	default:
		v.Author = CommentAuthor{Kind: c.Author().Kind, ID: c.Author().ID}
	}
	return v
}
