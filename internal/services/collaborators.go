// collaborators.go
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

// ListCollaborators returns the collaborator roster of a map the
// requester can view.
func ListCollaborators(db *gorm.DB, mapID, requesterID string) ([]models.MapCollaborator, error) {
	if !CanViewMap(db, mapID, requesterID) {
		return nil, ErrNotPermitted
	}

	var rows []models.MapCollaborator
	if err := db.Preload("User").
		Where("map_id = ?", mapID).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AddCollaborator grants userID the given role on a map. Owners may grant
// any role; editors may grant viewer only. Adding the map owner or an
// existing collaborator is rejected as not permitted rather than raised.
func AddCollaborator(db *gorm.DB, mapID, requesterID, userID string, role models.Role) error {
	if !role.ValidCollaborator() {
		return ErrValidation
	}

	m := findMap(db, mapID)
	if m == nil {
		return ErrNotPermitted
	}

	requesterRole := MapRole(db, mapID, requesterID)
	if requesterRole != models.RoleOwner && requesterRole != models.RoleEditor {
		return ErrNotPermitted
	}
	// Only the owner may grant the editor role
	if role == models.RoleEditor && requesterRole != models.RoleOwner {
		return ErrNotPermitted
	}
	// The owner is never represented as a collaborator row
	if userID == m.OwnerID {
		return ErrNotPermitted
	}

	var user models.User
	if err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	if collaboratorRole(db, mapID, userID) != models.RoleNone {
		return ErrNotPermitted
	}

	row := models.MapCollaborator{MapID: mapID, UserID: userID, Role: role}
	if err := db.Create(&row).Error; err != nil {
		// A concurrent add can hit the (map, user) unique constraint
		// between the pre-check and the insert. Re-fetch: if the row is
		// there the operation is already satisfied.
		if collaboratorRole(db, mapID, userID) != models.RoleNone {
			return nil
		}
		return err
	}
	return nil
}

// UpdateCollaborator changes an existing collaborator's role. Owner only.
func UpdateCollaborator(db *gorm.DB, mapID, requesterID, userID string, role models.Role) error {
	if !role.ValidCollaborator() {
		return ErrValidation
	}

	if MapRole(db, mapID, requesterID) != models.RoleOwner {
		return ErrNotPermitted
	}

	var row models.MapCollaborator
	if err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("map_id = ? AND user_id = ?", mapID, userID).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	return db.Model(&row).Update("role", role).Error
}

// RemoveCollaborator revokes a collaborator's access. Owner only.
func RemoveCollaborator(db *gorm.DB, mapID, requesterID, userID string) error {
	if MapRole(db, mapID, requesterID) != models.RoleOwner {
		return ErrNotPermitted
	}

	result := db.Where("map_id = ? AND user_id = ?", mapID, userID).
		Delete(&models.MapCollaborator{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
