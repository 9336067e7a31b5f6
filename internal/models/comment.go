// comment.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is an annotation on exactly one of a map or a layer (never both,
// never neither). A parent reference makes it a threaded reply; the parent
// must target the same map or layer.
type Comment struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	AuthorID  string    `gorm:"type:char(36);not null;index" json:"author_id"`
	MapID     *string   `gorm:"type:char(36);index" json:"map_id,omitempty"`
	LayerID   *string   `gorm:"type:char(36);index" json:"layer_id,omitempty"`
	ParentID  *string   `gorm:"type:char(36);index" json:"parent_id,omitempty"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Resolved  bool      `gorm:"not null;default:false" json:"resolved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName overrides the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TargetsValid reports whether the comment targets exactly one of a map
// or a layer.
func (c *Comment) TargetsValid() bool {
	return (c.MapID != nil) != (c.LayerID != nil)
}

// SameTarget reports whether two comments annotate the same map or layer.
func (c *Comment) SameTarget(other *Comment) bool {
	if c.MapID != nil && other.MapID != nil {
		return *c.MapID == *other.MapID
	}
	if c.LayerID != nil && other.LayerID != nil {
		return *c.LayerID == *other.LayerID
	}
	return false
}
