// layers.go
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

// findLayer fetches a layer by id, or nil if it does not exist.
func findLayer(db *gorm.DB, layerID string) *models.Layer {
	var l models.Layer
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", layerID).
		First(&l).Error
	if err != nil {
		return nil
	}
	return &l
}

// CanEditLayer reports whether userID may edit the layer: the creator
// always, anyone else only when the layer is marked everyone-editable.
func CanEditLayer(db *gorm.DB, layerID, userID string) bool {
	l := findLayer(db, layerID)
	if l == nil || userID == "" {
		return false
	}
	if l.CreatorID == userID {
		return true
	}
	return l.Editable.Valid() && l.Editable == models.EditableEveryone
}

// CanDeleteLayer reports whether userID may delete the layer. Delete
// rights belong to the creator alone; everyone-editable never grants it.
func CanDeleteLayer(db *gorm.DB, layerID, userID string) bool {
	l := findLayer(db, layerID)
	if l == nil || userID == "" {
		return false
	}
	return l.CreatorID == userID
}

// LayerInput carries the mutable fields of a layer.
type LayerInput struct {
	Name         *string            `json:"name,omitempty"`
	Description  *string            `json:"description,omitempty"`
	LayerType    *models.LayerType  `json:"layer_type,omitempty"`
	SourceConfig interface{}        `json:"source_config,omitempty"`
	Editable     *models.Editable   `json:"editable,omitempty"`
	Visibility   *models.Visibility `json:"visibility,omitempty"`
}

// CreateLayer creates a user-created layer owned by creatorID.
func CreateLayer(db *gorm.DB, creatorID string, in LayerInput) (*models.Layer, error) {
	if in.Name == nil || *in.Name == "" || in.LayerType == nil {
		return nil, ErrValidation
	}
	if !in.LayerType.Valid() {
		return nil, ErrValidation
	}

	l := models.Layer{
		CreatorID:      creatorID,
		Name:           *in.Name,
		LayerType:      *in.LayerType,
		Editable:       models.EditableCreatorOnly,
		Visibility:     models.VisibilityPrivate,
		CreationSource: models.CreationSourceUser,
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	if in.SourceConfig != nil {
		l.SourceConfig = models.NewJSON(in.SourceConfig)
	}
	if in.Editable != nil {
		if !in.Editable.Valid() {
			return nil, ErrValidation
		}
		l.Editable = *in.Editable
	}
	if in.Visibility != nil {
		if !in.Visibility.Valid() {
			return nil, ErrValidation
		}
		l.Visibility = *in.Visibility
	}

	if err := db.Create(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLayer fetches a layer by id. Reads by id are unrestricted:
// visibility governs discovery in the library listing, not access, and is
// deliberately independent from map permissions.
func GetLayer(db *gorm.DB, layerID string) (*models.Layer, error) {
	l := findLayer(db, layerID)
	if l == nil {
		return nil, ErrNotFound
	}
	return l, nil
}

// ListLibraryLayers returns the layer-library visibility set for a
// requester: all global layers, the requester's own layers, and public
// non-global layers created by others. Anonymous requesters see the
// global and public sets only.
func ListLibraryLayers(db *gorm.DB, userID string) ([]models.Layer, error) {
	query := db.Where("is_global = ?", true).
		Or("is_global = ? AND visibility = ?", false, models.VisibilityPublic)
	if userID != "" {
		query = query.Or("creator_id = ?", userID)
	}

	var layers []models.Layer
	if err := query.Order("name").Find(&layers).Error; err != nil {
		return nil, err
	}
	return layers, nil
}

// ListMyLayers returns the requester's explicitly user-created layers.
// System-seeded and global layers are excluded even when the requester
// owns them.
func ListMyLayers(db *gorm.DB, userID string) ([]models.Layer, error) {
	var layers []models.Layer
	err := db.Where("creator_id = ? AND is_global = ? AND creation_source = ?",
		userID, false, models.CreationSourceUser).
		Order("name").
		Find(&layers).Error
	if err != nil {
		return nil, err
	}
	return layers, nil
}

// UpdateLayer applies the input to a layer. Content fields require edit
// rights; the editable and visibility switches stay with the creator.
func UpdateLayer(db *gorm.DB, layerID, requesterID string, in LayerInput) (*models.Layer, error) {
	l := findLayer(db, layerID)
	if l == nil {
		return nil, ErrNotPermitted
	}
	if !CanEditLayer(db, layerID, requesterID) {
		return nil, ErrNotPermitted
	}

	changesPolicy := in.Editable != nil || in.Visibility != nil
	if changesPolicy && l.CreatorID != requesterID {
		return nil, ErrNotPermitted
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, ErrValidation
		}
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.LayerType != nil {
		if !in.LayerType.Valid() {
			return nil, ErrValidation
		}
		updates["layer_type"] = *in.LayerType
	}
	if in.SourceConfig != nil {
		updates["source_config"] = models.NewJSON(in.SourceConfig)
	}
	if in.Editable != nil {
		if !in.Editable.Valid() {
			return nil, ErrValidation
		}
		updates["editable"] = *in.Editable
	}
	if in.Visibility != nil {
		if !in.Visibility.Valid() {
			return nil, ErrValidation
		}
		updates["visibility"] = *in.Visibility
	}

	if len(updates) > 0 {
		if err := db.Model(l).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return l, nil
}

// DeleteLayer removes a layer with its map associations and comments.
// Creator only.
func DeleteLayer(db *gorm.DB, layerID, requesterID string) error {
	if !CanDeleteLayer(db, layerID, requesterID) {
		return ErrNotPermitted
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("layer_id = ?", layerID).Delete(&models.MapLayer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("layer_id = ?", layerID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Layer{}, "id = ?", layerID).Error
	})
}
