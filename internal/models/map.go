// map.go
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

// Map is a user-owned planning map. The owner reference is permanent for
// the life of the row except for reassignment to the deleted-user
// placeholder during ownership transfer. The owner always has full view
// and edit rights regardless of the permission fields.
type Map struct {
	ID             string     `gorm:"type:char(36);primaryKey" json:"id"`
	OwnerID        string     `gorm:"type:char(36);not null;index" json:"owner_id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	ViewPermission Permission `gorm:"size:32;not null;default:private" json:"view_permission"`
	EditPermission Permission `gorm:"size:32;not null;default:private" json:"edit_permission"`
	Viewport       JSON       `json:"viewport"`
	Meta           JSON       `json:"meta"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Owner         *User             `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Layers        []MapLayer        `gorm:"foreignKey:MapID" json:"layers,omitempty"`
	Collaborators []MapCollaborator `gorm:"foreignKey:MapID" json:"collaborators,omitempty"`
}

// TableName overrides the table name for Map
func (Map) TableName() string {
	return "maps"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (m *Map) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MapLayer associates a layer with a map, carrying per-map ordering and
// style overrides. Unique per (map, layer).
type MapLayer struct {
	MapID     string    `gorm:"type:char(36);primaryKey" json:"map_id"`
	LayerID   string    `gorm:"type:char(36);primaryKey" json:"layer_id"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	Style     JSON      `json:"style"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Layer *Layer `gorm:"foreignKey:LayerID" json:"layer,omitempty"`
}

// TableName overrides the table name for MapLayer
func (MapLayer) TableName() string {
	return "map_layers"
}

// MapCollaborator grants a user viewer or editor standing on a map.
// The map owner is never represented as a collaborator row.
type MapCollaborator struct {
	MapID     string    `gorm:"type:char(36);primaryKey" json:"map_id"`
	UserID    string    `gorm:"type:char(36);primaryKey" json:"user_id"`
	Role      Role      `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName overrides the table name for MapCollaborator
func (MapCollaborator) TableName() string {
	return "map_collaborators"
}
