// layer.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Layer is a map layer definition (WMS, GeoTIFF/COG, or vector). The
// creator alone may delete it; Editable governs edit only. Visibility
// governs library discovery and is independent from map permissions.
type Layer struct {
	ID             string         `gorm:"type:char(36);primaryKey" json:"id"`
	CreatorID      string         `gorm:"type:char(36);not null;index" json:"creator_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	LayerType      LayerType      `gorm:"size:32;not null;index" json:"layer_type"`
	SourceConfig   JSON           `json:"source_config"`
	Editable       Editable       `gorm:"size:32;not null;default:creator-only" json:"editable"`
	Visibility     Visibility     `gorm:"size:32;not null;default:private" json:"visibility"`
	IsGlobal       bool           `gorm:"not null;default:false" json:"is_global"`
	CreationSource CreationSource `gorm:"size:32;not null;default:user" json:"creation_source"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Creator *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

// TableName overrides the table name for Layer
func (Layer) TableName() string {
	return "layers"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (l *Layer) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// LayerSource is the parsed shape of the SourceConfig JSON column for the
// fields the whitelist service cares about. Unknown keys are ignored.
type LayerSource struct {
	URL            string `json:"url,omitempty"`
	COGURL         string `json:"cog_url,omitempty"`
	COGURLTemplate string `json:"cog_url_template,omitempty"`
}

// Source decodes SourceConfig. A missing or malformed column decodes to
// the zero value rather than an error; the caller only ever probes for
// non-empty URL fields.
func (l *Layer) Source() LayerSource {
	var src LayerSource
	if len(l.SourceConfig.JSON) == 0 {
		return src
	}
	_ = json.Unmarshal(l.SourceConfig.JSON, &src)
	return src
}
