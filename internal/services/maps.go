// maps.go
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

// MapInput carries the mutable fields of a map. Nil pointers leave the
// stored value untouched on update.
type MapInput struct {
	Title          *string            `json:"title,omitempty"`
	Description    *string            `json:"description,omitempty"`
	ViewPermission *models.Permission `json:"view_permission,omitempty"`
	EditPermission *models.Permission `json:"edit_permission,omitempty"`
	Viewport       interface{}        `json:"viewport,omitempty"`
	Meta           interface{}        `json:"meta,omitempty"`
}

// CreateMap creates a map owned by ownerID. Permission axes default to
// private when omitted.
func CreateMap(db *gorm.DB, ownerID string, in MapInput) (*models.Map, error) {
	if in.Title == nil || *in.Title == "" {
		return nil, ErrValidation
	}

	m := models.Map{
		OwnerID:        ownerID,
		Title:          *in.Title,
		ViewPermission: models.PermissionPrivate,
		EditPermission: models.PermissionPrivate,
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.ViewPermission != nil {
		if !in.ViewPermission.Valid() {
			return nil, ErrValidation
		}
		m.ViewPermission = *in.ViewPermission
	}
	if in.EditPermission != nil {
		if !in.EditPermission.Valid() {
			return nil, ErrValidation
		}
		m.EditPermission = *in.EditPermission
	}
	if in.Viewport != nil {
		m.Viewport = models.NewJSON(in.Viewport)
	}
	if in.Meta != nil {
		m.Meta = models.NewJSON(in.Meta)
	}

	if err := db.Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMap returns a map with its ordered layer associations, gated on the
// view permission. Absence and no-access are both ErrNotPermitted here;
// the handler answers 404 only for requesters who could know the map
// exists.
func GetMap(db *gorm.DB, mapID, requesterID string) (*models.Map, error) {
	if !CanViewMap(db, mapID, requesterID) {
		return nil, ErrNotPermitted
	}

	var m models.Map
	err := db.Preload("Layers", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("map_layers.sort_order")
	}).Preload("Layers.Layer").
		Preload("Collaborators").
		Where("id = ?", mapID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMyMaps returns the maps the user owns or collaborates on.
func ListMyMaps(db *gorm.DB, userID string) ([]models.Map, error) {
	var maps []models.Map
	err := db.
		Where("owner_id = ?", userID).
		Or("id IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Model(&models.MapCollaborator{}).
			Select("map_id").
			Where("user_id = ?", userID)).
		Order("updated_at DESC").
		Find(&maps).Error
	if err != nil {
		return nil, err
	}
	return maps, nil
}

// UpdateMap applies the input to a map. Permission fields are mutable by
// the owner alone; everything else requires edit rights.
func UpdateMap(db *gorm.DB, mapID, requesterID string, in MapInput) (*models.Map, error) {
	m := findMap(db, mapID)
	if m == nil {
		return nil, ErrNotPermitted
	}

	changesPermissions := in.ViewPermission != nil || in.EditPermission != nil
	if changesPermissions && m.OwnerID != requesterID {
		return nil, ErrNotPermitted
	}
	if !canEditLoaded(db, m, requesterID) {
		return nil, ErrNotPermitted
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, ErrValidation
		}
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.ViewPermission != nil {
		if !in.ViewPermission.Valid() {
			return nil, ErrValidation
		}
		updates["view_permission"] = *in.ViewPermission
	}
	if in.EditPermission != nil {
		if !in.EditPermission.Valid() {
			return nil, ErrValidation
		}
		updates["edit_permission"] = *in.EditPermission
	}
	if in.Viewport != nil {
		updates["viewport"] = models.NewJSON(in.Viewport)
	}
	if in.Meta != nil {
		updates["meta"] = models.NewJSON(in.Meta)
	}

	if len(updates) > 0 {
		if err := db.Model(m).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return m, nil
}

// DeleteMap removes a map with its collaborator rows, layer associations
// and comments. Owner only.
func DeleteMap(db *gorm.DB, mapID, requesterID string) error {
	m := findMap(db, mapID)
	if m == nil {
		return ErrNotPermitted
	}
	if m.OwnerID != requesterID {
		return ErrNotPermitted
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("map_id = ?", mapID).Delete(&models.MapCollaborator{}).Error; err != nil {
			return err
		}
		if err := tx.Where("map_id = ?", mapID).Delete(&models.MapLayer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("map_id = ?", mapID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Map{}, "id = ?", mapID).Error
	})
}

// AddMapLayer associates a layer with a map at the end of the ordering.
func AddMapLayer(db *gorm.DB, mapID, requesterID, layerID string, style interface{}) error {
	if !CanEditMap(db, mapID, requesterID) {
		return ErrNotPermitted
	}

	var layer models.Layer
	if err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", layerID).First(&layer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.MapLayer{}).
			Where("map_id = ? AND layer_id = ?", mapID, layerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			// Already associated, no-op
			return nil
		}

		// Orders are not re-densified on removal, so the next slot is
		// max+1, not the row count.
		var next int
		if err := tx.Model(&models.MapLayer{}).
			Where("map_id = ?", mapID).
			Select("COALESCE(MAX(sort_order), -1) + 1").
			Scan(&next).Error; err != nil {
			return err
		}

		row := models.MapLayer{
			MapID:     mapID,
			LayerID:   layerID,
			SortOrder: next,
		}
		if style != nil {
			row.Style = models.NewJSON(style)
		}
		return tx.Create(&row).Error
	})
}

// UpdateMapLayerStyle replaces the per-map style override of one layer
// association.
func UpdateMapLayerStyle(db *gorm.DB, mapID, requesterID, layerID string, style interface{}) error {
	if !CanEditMap(db, mapID, requesterID) {
		return ErrNotPermitted
	}

	result := db.Model(&models.MapLayer{}).
		Where("map_id = ? AND layer_id = ?", mapID, layerID).
		Update("style", models.NewJSON(style))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMapLayer drops a layer association from a map.
func RemoveMapLayer(db *gorm.DB, mapID, requesterID, layerID string) error {
	if !CanEditMap(db, mapID, requesterID) {
		return ErrNotPermitted
	}

	result := db.Where("map_id = ? AND layer_id = ?", mapID, layerID).
		Delete(&models.MapLayer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReorderMapLayers rewrites the sort order of a map's layer associations
// from the full ordered id list. Ids not associated with the map, and
// lists that repeat or omit an id, are rejected before anything is
// written.
func ReorderMapLayers(db *gorm.DB, mapID, requesterID string, layerIDs []string) error {
	if !CanEditMap(db, mapID, requesterID) {
		return ErrNotPermitted
	}
	if len(layerIDs) == 0 {
		return ErrValidation
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing []models.MapLayer
		if err := tx.Where("map_id = ?", mapID).Find(&existing).Error; err != nil {
			return err
		}

		known := make(map[string]struct{}, len(existing))
		for _, row := range existing {
			known[row.LayerID] = struct{}{}
		}
		if len(layerIDs) != len(existing) {
			return ErrValidation
		}
		for _, id := range layerIDs {
			if _, ok := known[id]; !ok {
				// Unknown id, or a duplicate consuming an id twice
				return ErrValidation
			}
			delete(known, id)
		}

		for i, id := range layerIDs {
			if err := tx.Model(&models.MapLayer{}).
				Where("map_id = ? AND layer_id = ?", mapID, id).
				Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
