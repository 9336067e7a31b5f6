package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
	"github.com/Mistra-C2B2/samsyn-sub000/tests/helpers"
)

func TestRegisterWmsServerIdempotent(t *testing.T) {
	db := helpers.OpenTestDB(t)
	alice := helpers.CreateTestUser(t, db, "alice")
	bob := helpers.CreateTestUser(t, db, "bob")

	first, err := services.RegisterWmsServer(db, alice.ID, "https://WMS.Example.com/geo/")
	if err != nil {
		t.Fatalf("RegisterWmsServer failed: %v", err)
	}
	if first.URL != "https://wms.example.com/geo" {
		t.Errorf("stored URL = %q, want normalized form", first.URL)
	}

	// Equivalent spelling resolves to the existing row, whoever asks.
	again, err := services.RegisterWmsServer(db, bob.ID, "https://wms.example.com/geo")
	if err != nil {
		t.Fatalf("RegisterWmsServer failed: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("re-registration created a new row")
	}
	if again.CreatorID != alice.ID {
		t.Errorf("creator = %s, want original registrant %s", again.CreatorID, alice.ID)
	}
}

func TestRefreshWmsCapabilitiesCreatorOnly(t *testing.T) {
	db := helpers.OpenTestDB(t)
	alice := helpers.CreateTestUser(t, db, "alice")
	bob := helpers.CreateTestUser(t, db, "bob")

	requests := 0
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`<WMS_Capabilities/>`))
	}))
	defer origin.Close()

	server, err := services.RegisterWmsServer(db, alice.ID, origin.URL+"/wms")
	if err != nil {
		t.Fatalf("RegisterWmsServer failed: %v", err)
	}

	// The gate fires before any upstream contact.
	if _, err := services.RefreshWmsCapabilities(context.Background(), db, server.ID, bob.ID); !errors.Is(err, services.ErrNotPermitted) {
		t.Fatalf("non-creator refresh: err = %v, want ErrNotPermitted", err)
	}
	if requests != 0 {
		t.Errorf("rejected refresh contacted the upstream %d times", requests)
	}

	refreshed, err := services.RefreshWmsCapabilities(context.Background(), db, server.ID, alice.ID)
	if err != nil {
		t.Fatalf("creator refresh failed: %v", err)
	}
	if refreshed.CachedAt == nil {
		t.Error("refresh did not record the fetch timestamp")
	}
	if requests != 1 {
		t.Errorf("upstream contacted %d times, want 1", requests)
	}

	if _, err := services.RefreshWmsCapabilities(context.Background(), db, "no-such-server", alice.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("unknown server: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteWmsServerCreatorOnly(t *testing.T) {
	db := helpers.OpenTestDB(t)
	alice := helpers.CreateTestUser(t, db, "alice")
	bob := helpers.CreateTestUser(t, db, "bob")

	server, err := services.RegisterWmsServer(db, alice.ID, "https://wms.example.com/geo")
	if err != nil {
		t.Fatalf("RegisterWmsServer failed: %v", err)
	}

	if err := services.DeleteWmsServer(db, server.ID, bob.ID); !errors.Is(err, services.ErrNotPermitted) {
		t.Errorf("non-creator delete: err = %v, want ErrNotPermitted", err)
	}
	if err := services.DeleteWmsServer(db, server.ID, alice.ID); err != nil {
		t.Fatalf("creator delete failed: %v", err)
	}

	var count int64
	db.Model(&models.WmsServer{}).Where("id = ?", server.ID).Count(&count)
	if count != 0 {
		t.Error("server row survived deletion")
	}
}
