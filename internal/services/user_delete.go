// user_delete.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package services

import (
	"log"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EnsureUser resolves the internal user for an Authorizer subject key,
// provisioning the row on first contact. A losing race against a
// concurrent provision (two first requests, or a webhook) is recovered by
// re-fetching the winner's row.
func EnsureUser(db *gorm.DB, authzID, email, nickname string) (*models.User, error) {
	if authzID == "" {
		return nil, ErrValidation
	}

	var u models.User
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("authz_id = ?", authzID).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	u = models.User{AuthzID: authzID, Email: email, Nickname: nickname}
	if createErr := db.Create(&u).Error; createErr != nil {
		var again models.User
		if err := db.Where("authz_id = ?", authzID).First(&again).Error; err == nil {
			return &again, nil
		}
		return nil, createErr
	}
	return &u, nil
}

// placeholderUser returns the deleted-user placeholder, creating it on
// first use. Creation races on the unique authz key are resolved by
// re-fetching rather than failing.
func placeholderUser(tx *gorm.DB) (*models.User, error) {
	var u models.User
	err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
		Where("authz_id = ?", models.DeletedUserAuthzID).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	u = models.User{
		AuthzID:  models.DeletedUserAuthzID,
		Nickname: "Deleted user",
	}
	if createErr := tx.Create(&u).Error; createErr != nil {
		var again models.User
		if err := tx.Where("authz_id = ?", models.DeletedUserAuthzID).First(&again).Error; err == nil {
			return &again, nil
		}
		return nil, createErr
	}
	return &u, nil
}

// DeleteUserWithOwnershipTransfer erases the identity behind authzID
// while keeping their maps, layers, comments and collaborations alive
// under the placeholder account. The reassignment and the identity delete
// run as one transaction: a crash leaves either the pre-deletion state or
// the fully transferred one, never an intermediate.
//
// The operation is idempotent: deleting an already-deleted user reports
// ErrAlreadyDeleted so a duplicate identity-provider event is a no-op.
func DeleteUserWithOwnershipTransfer(db *gorm.DB, authzID string) error {
	if authzID == "" || authzID == models.DeletedUserAuthzID {
		return ErrValidation
	}

	var user models.User
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("authz_id = ?", authzID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return ErrAlreadyDeleted
	}
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		placeholder, err := placeholderUser(tx)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Map{}).
			Where("owner_id = ?", user.ID).
			Update("owner_id", placeholder.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Layer{}).
			Where("creator_id = ?", user.ID).
			Update("creator_id", placeholder.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Comment{}).
			Where("author_id = ?", user.ID).
			Update("author_id", placeholder.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.WmsServer{}).
			Where("creator_id = ?", user.ID).
			Update("creator_id", placeholder.ID).Error; err != nil {
			return err
		}

		// Collaborator rows are reassigned, not dropped, so shared maps
		// keep their roster. Rows whose map already carries a placeholder
		// collaborator would collide on the (map, user) key and are
		// removed instead.
		if err := tx.Where("user_id = ? AND map_id IN (?)", user.ID,
			tx.Session(&gorm.Session{NewDB: true}).
				Model(&models.MapCollaborator{}).
				Select("map_id").
				Where("user_id = ?", placeholder.ID)).
			Delete(&models.MapCollaborator{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.MapCollaborator{}).
			Where("user_id = ?", user.ID).
			Update("user_id", placeholder.ID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.User{}, "id = ?", user.ID).Error; err != nil {
			return err
		}

		log.Printf("Transferred ownership and deleted user %s", user.ID)
		return nil
	})
}
