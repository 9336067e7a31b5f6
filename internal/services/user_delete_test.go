package services_test

import (
	"errors"
	"testing"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
	"github.com/Mistra-C2B2/samsyn-sub000/tests/helpers"
)

func TestEnsureUserProvisionsOnce(t *testing.T) {
	db := helpers.OpenTestDB(t)

	first, err := services.EnsureUser(db, "authz-123", "a@example.com", "Alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	second, err := services.EnsureUser(db, "authz-123", "a@example.com", "Alice")
	if err != nil {
		t.Fatalf("EnsureUser second call failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("EnsureUser created a second row: %q != %q", first.ID, second.ID)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}

	if _, err := services.EnsureUser(db, "", "", ""); !errors.Is(err, services.ErrValidation) {
		t.Errorf("empty authz id: err = %v, want ErrValidation", err)
	}
}

func TestDeleteUserWithOwnershipTransfer(t *testing.T) {
	db := helpers.OpenTestDB(t)
	doomed, _ := services.EnsureUser(db, "doomed", "d@example.com", "Doomed")
	friend := helpers.CreateTestUser(t, db, "friend")

	ownMap := helpers.CreateTestMap(t, db, doomed, "own map", models.PermissionCollaborators, models.PermissionPrivate)
	helpers.AddTestCollaborator(t, db, ownMap, friend, models.RoleViewer)

	friendMap := helpers.CreateTestMap(t, db, friend, "friend map", models.PermissionCollaborators, models.PermissionPrivate)
	helpers.AddTestCollaborator(t, db, friendMap, doomed, models.RoleEditor)

	layer := helpers.CreateTestLayer(t, db, doomed, "their layer", models.LayerTypeWMS, models.LayerSource{URL: "https://example.com/w"})

	comment, err := services.CreateComment(db, doomed.ID, services.CommentInput{
		MapID: &ownMap.ID,
		Body:  "note to self",
	})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	if err := services.DeleteUserWithOwnershipTransfer(db, "doomed"); err != nil {
		t.Fatalf("DeleteUserWithOwnershipTransfer failed: %v", err)
	}

	// The identity row is gone.
	var gone models.User
	if err := db.Where("id = ?", doomed.ID).First(&gone).Error; err == nil {
		t.Error("deleted user row still present")
	}

	// Content survives under the placeholder.
	placeholder, err := services.EnsureUser(db, models.DeletedUserAuthzID, "", "Deleted user")
	if err != nil {
		t.Fatalf("placeholder lookup failed: %v", err)
	}
	if placeholder.ID == doomed.ID {
		t.Fatal("placeholder resolved to the deleted user")
	}

	var m models.Map
	if err := db.Where("id = ?", ownMap.ID).First(&m).Error; err != nil {
		t.Fatalf("transferred map missing: %v", err)
	}
	if m.OwnerID != placeholder.ID {
		t.Errorf("map owner = %q, want placeholder %q", m.OwnerID, placeholder.ID)
	}

	var l models.Layer
	if err := db.Where("id = ?", layer.ID).First(&l).Error; err != nil {
		t.Fatalf("transferred layer missing: %v", err)
	}
	if l.CreatorID != placeholder.ID {
		t.Errorf("layer creator = %q, want placeholder", l.CreatorID)
	}

	var cmt models.Comment
	if err := db.Where("id = ?", comment.ID).First(&cmt).Error; err != nil {
		t.Fatalf("transferred comment missing: %v", err)
	}
	if cmt.AuthorID != placeholder.ID {
		t.Errorf("comment author = %q, want placeholder", cmt.AuthorID)
	}

	// The collaboration on the friend's map is reassigned, not dropped.
	var row models.MapCollaborator
	if err := db.Where("map_id = ? AND user_id = ?", friendMap.ID, placeholder.ID).First(&row).Error; err != nil {
		t.Errorf("collaborator row not reassigned to placeholder: %v", err)
	}
	// And the friend keeps their grant on the transferred map.
	if !services.CanViewMap(db, ownMap.ID, friend.ID) {
		t.Error("friend lost access to the transferred map")
	}
}

func TestDeleteUserIdempotent(t *testing.T) {
	db := helpers.OpenTestDB(t)
	services.EnsureUser(db, "gone", "g@example.com", "Gone")

	if err := services.DeleteUserWithOwnershipTransfer(db, "gone"); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	err := services.DeleteUserWithOwnershipTransfer(db, "gone")
	if !errors.Is(err, services.ErrAlreadyDeleted) {
		t.Errorf("second delete: err = %v, want ErrAlreadyDeleted", err)
	}
}

func TestDeleteUserGuards(t *testing.T) {
	db := helpers.OpenTestDB(t)

	if err := services.DeleteUserWithOwnershipTransfer(db, ""); !errors.Is(err, services.ErrValidation) {
		t.Errorf("empty authz id: err = %v, want ErrValidation", err)
	}
	if err := services.DeleteUserWithOwnershipTransfer(db, models.DeletedUserAuthzID); !errors.Is(err, services.ErrValidation) {
		t.Errorf("placeholder authz id: err = %v, want ErrValidation", err)
	}
}

func TestDeleteUserCollaboratorCollision(t *testing.T) {
	db := helpers.OpenTestDB(t)
	first, _ := services.EnsureUser(db, "first", "f@example.com", "First")
	second, _ := services.EnsureUser(db, "second", "s@example.com", "Second")
	host := helpers.CreateTestUser(t, db, "host")

	// Both collaborate on the same map; deleting them in sequence must not
	// collide on the (map, placeholder) key.
	m := helpers.CreateTestMap(t, db, host, "shared", models.PermissionCollaborators, models.PermissionPrivate)
	helpers.AddTestCollaborator(t, db, m, first, models.RoleViewer)
	helpers.AddTestCollaborator(t, db, m, second, models.RoleEditor)

	if err := services.DeleteUserWithOwnershipTransfer(db, "first"); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := services.DeleteUserWithOwnershipTransfer(db, "second"); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}

	var count int64
	db.Model(&models.MapCollaborator{}).Where("map_id = ?", m.ID).Count(&count)
	if count != 1 {
		t.Errorf("collaborator rows after both deletes = %d, want 1", count)
	}
}
