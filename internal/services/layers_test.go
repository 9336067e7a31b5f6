package services_test

import (
	"errors"
	"testing"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
	"github.com/Mistra-C2B2/samsyn-sub000/tests/helpers"
)

func layerTypePtr(lt models.LayerType) *models.LayerType { return &lt }

func editablePtr(e models.Editable) *models.Editable { return &e }

func visibilityPtr(v models.Visibility) *models.Visibility { return &v }

func TestCreateLayerDefaults(t *testing.T) {
	db := helpers.OpenTestDB(t)
	creator := helpers.CreateTestUser(t, db, "creator")

	l, err := services.CreateLayer(db, creator.ID, services.LayerInput{
		Name:      strPtr("seagrass"),
		LayerType: layerTypePtr(models.LayerTypeVector),
	})
	if err != nil {
		t.Fatalf("CreateLayer failed: %v", err)
	}
	if l.Editable != models.EditableCreatorOnly {
		t.Errorf("editable = %q, want creator-only", l.Editable)
	}
	if l.Visibility != models.VisibilityPrivate {
		t.Errorf("visibility = %q, want private", l.Visibility)
	}
	if l.CreationSource != models.CreationSourceUser {
		t.Errorf("creation source = %q, want user", l.CreationSource)
	}
	if l.IsGlobal {
		t.Error("user-created layer marked global")
	}
}

func TestCreateLayerValidation(t *testing.T) {
	db := helpers.OpenTestDB(t)
	creator := helpers.CreateTestUser(t, db, "creator")

	cases := []struct {
		name string
		in   services.LayerInput
	}{
		{"missing name", services.LayerInput{LayerType: layerTypePtr(models.LayerTypeWMS)}},
		{"empty name", services.LayerInput{Name: strPtr(""), LayerType: layerTypePtr(models.LayerTypeWMS)}},
		{"missing type", services.LayerInput{Name: strPtr("x")}},
		{"invalid type", services.LayerInput{Name: strPtr("x"), LayerType: layerTypePtr("hologram")}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := services.CreateLayer(db, creator.ID, c.in); !errors.Is(err, services.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCanEditLayer(t *testing.T) {
	db := helpers.OpenTestDB(t)
	creator := helpers.CreateTestUser(t, db, "creator")
	other := helpers.CreateTestUser(t, db, "other")

	restricted := helpers.CreateTestLayer(t, db, creator, "restricted", models.LayerTypeWMS, models.LayerSource{URL: "https://example.com/a"})
	open, err := services.CreateLayer(db, creator.ID, services.LayerInput{
		Name:      strPtr("open"),
		LayerType: layerTypePtr(models.LayerTypeWMS),
		Editable:  editablePtr(models.EditableEveryone),
	})
	if err != nil {
		t.Fatalf("CreateLayer failed: %v", err)
	}

	if !services.CanEditLayer(db, restricted.ID, creator.ID) {
		t.Error("creator cannot edit own layer")
	}
	if services.CanEditLayer(db, restricted.ID, other.ID) {
		t.Error("non-creator can edit a creator-only layer")
	}
	if !services.CanEditLayer(db, open.ID, other.ID) {
		t.Error("non-creator cannot edit an everyone-editable layer")
	}
	if services.CanEditLayer(db, open.ID, "") {
		t.Error("anonymous can edit an everyone-editable layer")
	}
	if services.CanEditLayer(db, "no-such-layer", creator.ID) {
		t.Error("nonexistent layer is editable")
	}
}

func TestCanDeleteLayerCreatorOnly(t *testing.T) {
	db := helpers.OpenTestDB(t)
	creator := helpers.CreateTestUser(t, db, "creator")
	other := helpers.CreateTestUser(t, db, "other")

	// Everyone-editable grants edit, never delete.
	open, err := services.CreateLayer(db, creator.ID, services.LayerInput{
		Name:      strPtr("open"),
		LayerType: layerTypePtr(models.LayerTypeWMS),
		Editable:  editablePtr(models.EditableEveryone),
	})
	if err != nil {
		t.Fatalf("CreateLayer failed: %v", err)
	}

	if !services.CanDeleteLayer(db, open.ID, creator.ID) {
		t.Error("creator cannot delete own layer")
	}
	if services.CanDeleteLayer(db, open.ID, other.ID) {
		t.Error("non-creator can delete an everyone-editable layer")
	}
	if err := services.DeleteLayer(db, open.ID, other.ID); !errors.Is(err, services.ErrNotPermitted) {
		t.Errorf("non-creator delete: err = %v, want ErrNotPermitted", err)
	}
}

func TestListLibraryLayers(t *testing.T) {
	db := helpers.OpenTestDB(t)
	me := helpers.CreateTestUser(t, db, "me")
	other := helpers.CreateTestUser(t, db, "other")

	mine := helpers.CreateTestLayer(t, db, me, "mine", models.LayerTypeWMS, models.LayerSource{URL: "https://example.com/mine"})
	helpers.CreateTestLayer(t, db, other, "others-private", models.LayerTypeWMS, models.LayerSource{URL: "https://example.com/p"})

	public, err := services.CreateLayer(db, other.ID, services.LayerInput{
		Name:       strPtr("others-public"),
		LayerType:  layerTypePtr(models.LayerTypeWMS),
		Visibility: visibilityPtr(models.VisibilityPublic),
	})
	if err != nil {
		t.Fatalf("CreateLayer failed: %v", err)
	}

	global := helpers.CreateTestLayer(t, db, other, "global", models.LayerTypeGeoTIFF, models.LayerSource{COGURL: "https://example.com/g.tif"})
	if err := db.Model(global).Updates(map[string]interface{}{
		"is_global":       true,
		"creation_source": models.CreationSourceSystem,
	}).Error; err != nil {
		t.Fatalf("Failed to mark layer global: %v", err)
	}

	layers, err := services.ListLibraryLayers(db, me.ID)
	if err != nil {
		t.Fatalf("ListLibraryLayers failed: %v", err)
	}
	got := map[string]bool{}
	for _, l := range layers {
		got[l.ID] = true
	}
	if len(layers) != 3 || !got[mine.ID] || !got[public.ID] || !got[global.ID] {
		t.Errorf("library for me = %d layers %v, want mine, public and global", len(layers), got)
	}

	// Anonymous sees the global and public sets only.
	anon, err := services.ListLibraryLayers(db, "")
	if err != nil {
		t.Fatalf("ListLibraryLayers anonymous failed: %v", err)
	}
	if len(anon) != 2 {
		t.Errorf("anonymous library = %d layers, want 2", len(anon))
	}
}

func TestListMyLayersExcludesGlobalAndSystem(t *testing.T) {
	db := helpers.OpenTestDB(t)
	me := helpers.CreateTestUser(t, db, "me")

	mine := helpers.CreateTestLayer(t, db, me, "mine", models.LayerTypeWMS, models.LayerSource{URL: "https://example.com/mine"})

	seeded := helpers.CreateTestLayer(t, db, me, "seeded", models.LayerTypeWMS, models.LayerSource{URL: "https://example.com/s"})
	if err := db.Model(seeded).Update("creation_source", models.CreationSourceSystem).Error; err != nil {
		t.Fatalf("Failed to mark layer system-created: %v", err)
	}

	layers, err := services.ListMyLayers(db, me.ID)
	if err != nil {
		t.Fatalf("ListMyLayers failed: %v", err)
	}
	if len(layers) != 1 || layers[0].ID != mine.ID {
		t.Errorf("ListMyLayers = %d layers, want only the user-created one", len(layers))
	}
}

func TestUpdateLayerPolicyFieldsCreatorOnly(t *testing.T) {
	db := helpers.OpenTestDB(t)
	creator := helpers.CreateTestUser(t, db, "creator")
	other := helpers.CreateTestUser(t, db, "other")

	open, err := services.CreateLayer(db, creator.ID, services.LayerInput{
		Name:      strPtr("open"),
		LayerType: layerTypePtr(models.LayerTypeWMS),
		Editable:  editablePtr(models.EditableEveryone),
	})
	if err != nil {
		t.Fatalf("CreateLayer failed: %v", err)
	}

	// A non-creator with edit rights may change content.
	if _, err := services.UpdateLayer(db, open.ID, other.ID, services.LayerInput{Name: strPtr("renamed")}); err != nil {
		t.Fatalf("non-creator content edit failed: %v", err)
	}

	// But not the policy switches.
	_, err = services.UpdateLayer(db, open.ID, other.ID, services.LayerInput{
		Editable: editablePtr(models.EditableCreatorOnly),
	})
	if !errors.Is(err, services.ErrNotPermitted) {
		t.Errorf("non-creator policy change: err = %v, want ErrNotPermitted", err)
	}

	if _, err := services.UpdateLayer(db, open.ID, creator.ID, services.LayerInput{
		Visibility: visibilityPtr(models.VisibilityPublic),
	}); err != nil {
		t.Fatalf("creator policy change failed: %v", err)
	}
}

func TestDeleteLayerCascades(t *testing.T) {
	f := newPermFixture(t, models.PermissionPrivate, models.PermissionPrivate)
	layer := helpers.CreateTestLayer(t, f.db, f.owner, "doomed", models.LayerTypeWMS, models.LayerSource{URL: "https://example.com/d"})
	if err := services.AddMapLayer(f.db, f.m.ID, f.owner.ID, layer.ID, nil); err != nil {
		t.Fatalf("AddMapLayer failed: %v", err)
	}

	if err := services.DeleteLayer(f.db, layer.ID, f.owner.ID); err != nil {
		t.Fatalf("DeleteLayer failed: %v", err)
	}

	var associations int64
	f.db.Model(&models.MapLayer{}).Where("layer_id = ?", layer.ID).Count(&associations)
	if associations != 0 {
		t.Errorf("cascade left %d map associations", associations)
	}
	if _, err := services.GetLayer(f.db, layer.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("deleted layer still readable: err = %v", err)
	}
}

func TestGetLayerUnrestricted(t *testing.T) {
	db := helpers.OpenTestDB(t)
	creator := helpers.CreateTestUser(t, db, "creator")
	layer := helpers.CreateTestLayer(t, db, creator, "private", models.LayerTypeWMS, models.LayerSource{URL: "https://example.com/x"})

	// Visibility governs library discovery, not reads by id.
	if _, err := services.GetLayer(db, layer.ID); err != nil {
		t.Errorf("GetLayer failed for private layer: %v", err)
	}
	if _, err := services.GetLayer(db, "no-such-layer"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
