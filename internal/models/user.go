// user.go
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

// DeletedUserAuthzID is the well-known external identity key of the
// placeholder account that receives reassigned content when a user is
// erased. The row is created lazily on first deletion and never removed.
const DeletedUserAuthzID = "deleted-user"

// User is the internal identity record. AuthzID is the opaque subject key
// issued by the Authorizer identity provider; it is the only link between
// sessions and rows in this store.
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	AuthzID   string    `gorm:"uniqueIndex;size:255;not null" json:"-"`
	Email     string    `gorm:"size:255" json:"email"`
	Nickname  string    `gorm:"size:255" json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsPlaceholder reports whether the user is the deleted-user placeholder.
func (u *User) IsPlaceholder() bool {
	return u.AuthzID == DeletedUserAuthzID
}
