// map_permissions.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package services

import (
	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The map permission evaluator resolves a requester's effective standing
// against a map's two permission axes and its collaborator roster. An
// empty userID means an anonymous requester. Every check against a map id
// that does not exist answers "no access" rather than erroring: at this
// layer absence and unauthorized are observably identical, the API
// boundary decides between 403 and 404 where it can.

// findMap fetches a map by id, or nil if it does not exist.
func findMap(db *gorm.DB, mapID string) *models.Map {
	var m models.Map
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", mapID).
		First(&m).Error
	if err != nil {
		return nil
	}
	return &m
}

// collaboratorRole returns the stored role for (mapID, userID), or
// RoleNone when no row exists.
func collaboratorRole(db *gorm.DB, mapID, userID string) models.Role {
	if userID == "" {
		return models.RoleNone
	}
	var row models.MapCollaborator
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("map_id = ? AND user_id = ?", mapID, userID).
		First(&row).Error
	if err != nil {
		return models.RoleNone
	}
	if !row.Role.ValidCollaborator() {
		// Store-level corruption, treat as the weakest grant
		return models.RoleViewer
	}
	return row.Role
}

// viewPermission reads the view axis, collapsing unknown stored values to
// private since the store does not enforce the enum.
func viewPermission(m *models.Map) models.Permission {
	if !m.ViewPermission.Valid() {
		return models.PermissionPrivate
	}
	return m.ViewPermission
}

func editPermission(m *models.Map) models.Permission {
	if !m.EditPermission.Valid() {
		return models.PermissionPrivate
	}
	return m.EditPermission
}

// CanViewMap reports whether userID may view the map. Public maps are
// viewable by anyone, including anonymous requesters.
func CanViewMap(db *gorm.DB, mapID, userID string) bool {
	m := findMap(db, mapID)
	if m == nil {
		return false
	}
	return canViewLoaded(db, m, userID)
}

func canViewLoaded(db *gorm.DB, m *models.Map, userID string) bool {
	if viewPermission(m) == models.PermissionPublic {
		return true
	}
	if userID == "" {
		return false
	}
	if m.OwnerID == userID {
		return true
	}
	switch viewPermission(m) {
	case models.PermissionCollaborators:
		return collaboratorRole(db, m.ID, userID) != models.RoleNone
	default:
		return false
	}
}

// CanEditMap reports whether userID may edit the map. The owner edits
// unconditionally; a public edit axis grants edit to anyone who can view;
// a collaborators edit axis requires the editor role.
func CanEditMap(db *gorm.DB, mapID, userID string) bool {
	m := findMap(db, mapID)
	if m == nil {
		return false
	}
	return canEditLoaded(db, m, userID)
}

func canEditLoaded(db *gorm.DB, m *models.Map, userID string) bool {
	if userID != "" && m.OwnerID == userID {
		return true
	}
	switch editPermission(m) {
	case models.PermissionPublic:
		return canViewLoaded(db, m, userID)
	case models.PermissionCollaborators:
		return collaboratorRole(db, m.ID, userID) == models.RoleEditor
	default:
		return false
	}
}

// MapRole resolves the requester's effective role: owner for the creator,
// the stored collaborator role if present, implicit viewer on public maps
// (anonymous and unknown users included), none otherwise.
func MapRole(db *gorm.DB, mapID, userID string) models.Role {
	m := findMap(db, mapID)
	if m == nil {
		return models.RoleNone
	}
	if userID != "" && m.OwnerID == userID {
		return models.RoleOwner
	}
	if role := collaboratorRole(db, m.ID, userID); role != models.RoleNone {
		return role
	}
	if viewPermission(m) == models.PermissionPublic {
		return models.RoleViewer
	}
	return models.RoleNone
}
