// wms_server.go
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

// WmsServer is a registered WMS endpoint with a cached capabilities
// snapshot. Reads are unrestricted; the creator reference exists only to
// authorize update and delete.
type WmsServer struct {
	ID           string     `gorm:"type:char(36);primaryKey" json:"id"`
	URL          string     `gorm:"uniqueIndex;size:1024;not null" json:"url"`
	CreatorID    string     `gorm:"type:char(36);not null" json:"creator_id"`
	Capabilities JSON       `json:"capabilities"`
	CachedAt     *time.Time `json:"cached_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName overrides the table name for WmsServer
func (WmsServer) TableName() string {
	return "wms_servers"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (w *WmsServer) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
