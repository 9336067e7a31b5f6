// data.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package helpers

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/database"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
)

// OpenTestDB opens an in-memory SQLite database with the full schema.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}
	return db
}

// CreateTestUser creates a user keyed by its identity-provider subject id.
func CreateTestUser(t *testing.T, db *gorm.DB, authzID string) *models.User {
	t.Helper()
	user := &models.User{
		AuthzID:  authzID,
		Email:    authzID + "@example.com",
		Nickname: authzID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", authzID, err)
	}
	return user
}

// CreateTestMap creates a map with the given permission pair.
func CreateTestMap(t *testing.T, db *gorm.DB, owner *models.User, title string, view, edit models.Permission) *models.Map {
	t.Helper()
	m := &models.Map{
		OwnerID:        owner.ID,
		Title:          title,
		ViewPermission: view,
		EditPermission: edit,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to create map %s: %v", title, err)
	}
	return m
}

// AddTestCollaborator adds a user to a map's collaborator roster.
func AddTestCollaborator(t *testing.T, db *gorm.DB, m *models.Map, user *models.User, role models.Role) {
	t.Helper()
	mc := &models.MapCollaborator{
		MapID:  m.ID,
		UserID: user.ID,
		Role:   role,
	}
	if err := db.Create(mc).Error; err != nil {
		t.Fatalf("Failed to add collaborator: %v", err)
	}
}

// CreateTestLayer creates a layer with the given source configuration.
func CreateTestLayer(t *testing.T, db *gorm.DB, creator *models.User, name string, layerType models.LayerType, source models.LayerSource) *models.Layer {
	t.Helper()
	layer := &models.Layer{
		CreatorID:      creator.ID,
		Name:           name,
		LayerType:      layerType,
		SourceConfig:   models.NewJSON(source),
		Editable:       models.EditableCreatorOnly,
		Visibility:     models.VisibilityPrivate,
		CreationSource: models.CreationSourceUser,
	}
	if err := db.Create(layer).Error; err != nil {
		t.Fatalf("Failed to create layer %s: %v", name, err)
	}
	return layer
}
