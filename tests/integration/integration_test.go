package integration_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/cache"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/config"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/database"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
	"github.com/Mistra-C2B2/samsyn-sub000/tests/helpers"
)

func imageOr(envKey, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}

// TestWithPostgreSQL runs the service layer against a real PostgreSQL
// container, covering the JSON source-config queries that the in-memory
// sqlite tests exercise with a different dialect.
func TestWithPostgreSQL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageOr("POSTGRES_IMAGE", "postgres:16-alpine"),
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_USER":     "testuser",
				"POSTGRES_DB":       "samsyn_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "postgres",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "samsyn_test",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	time.Sleep(2 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Run("MapSharingLifecycle", func(t *testing.T) {
		testMapSharingLifecycle(t, db)
	})

	t.Run("WhitelistScan", func(t *testing.T) {
		testWhitelistScan(t, db)
	})

	t.Run("OwnershipTransfer", func(t *testing.T) {
		testOwnershipTransfer(t, db)
	})
}

// TestWithMariaDB repeats the lifecycle against MariaDB to keep the
// mysql dialect honest.
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageOr("DB_IMAGE", "mariadb:11"),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "samsyn_test",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "samsyn_test",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	time.Sleep(5 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Run("MapSharingLifecycle", func(t *testing.T) {
		testMapSharingLifecycle(t, db)
	})

	t.Run("WhitelistScan", func(t *testing.T) {
		testWhitelistScan(t, db)
	})

	t.Run("OwnershipTransfer", func(t *testing.T) {
		testOwnershipTransfer(t, db)
	})
}

// testMapSharingLifecycle walks a map from creation through sharing to
// deletion against a real database.
func testMapSharingLifecycle(t *testing.T, db *gorm.DB) {
	owner, err := services.EnsureUser(db, "authz-lifecycle-owner", "owner@example.com", "Owner")
	if err != nil {
		t.Fatalf("Failed to provision owner: %v", err)
	}
	friend, err := services.EnsureUser(db, "authz-lifecycle-friend", "friend@example.com", "Friend")
	if err != nil {
		t.Fatalf("Failed to provision friend: %v", err)
	}

	title := "Kattegat zoning"
	m, err := services.CreateMap(db, owner.ID, services.MapInput{Title: &title})
	if err != nil {
		t.Fatalf("Failed to create map: %v", err)
	}

	// Private by default: the friend cannot see it yet.
	if services.CanViewMap(db, m.ID, friend.ID) {
		t.Error("Friend can view a private map before being invited")
	}

	if err := services.AddCollaborator(db, m.ID, owner.ID, friend.ID, models.RoleEditor); err != nil {
		t.Fatalf("Failed to add collaborator: %v", err)
	}
	if !services.CanEditMap(db, m.ID, friend.ID) {
		t.Error("Editor collaborator cannot edit the map")
	}

	layer := helpers.CreateTestLayer(t, db, owner, "bathymetry", models.LayerTypeWMS,
		models.LayerSource{URL: "https://wms.example.com/bathymetry"})
	if err := services.AddMapLayer(db, m.ID, friend.ID, layer.ID, nil); err != nil {
		t.Fatalf("Editor failed to attach a layer: %v", err)
	}

	got, err := services.GetMap(db, m.ID, friend.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve map: %v", err)
	}
	if len(got.Layers) != 1 {
		t.Errorf("Expected 1 attached layer, got %d", len(got.Layers))
	}

	if err := services.DeleteMap(db, m.ID, owner.ID); err != nil {
		t.Fatalf("Failed to delete map: %v", err)
	}
	if _, err := services.GetMap(db, m.ID, owner.ID); err == nil {
		t.Error("Deleted map still retrievable")
	}
}

// testWhitelistScan exercises the JSON source-config query path on the
// real dialect, including template matching for tile URLs.
func testWhitelistScan(t *testing.T, db *gorm.DB) {
	creator, err := services.EnsureUser(db, "authz-whitelist-creator", "wl@example.com", "")
	if err != nil {
		t.Fatalf("Failed to provision creator: %v", err)
	}
	helpers.CreateTestLayer(t, db, creator, "elevation", models.LayerTypeGeoTIFF,
		models.LayerSource{URL: "https://tiles.example.com/cog/{z}/{x}/{y}.tif"})

	svc := services.NewWhitelistService(db, cache.NewWhitelist(16, time.Minute))
	ctx := context.Background()

	ok, err := svc.IsWhitelisted(ctx, "https://tiles.example.com/cog/3/4/5.tif")
	if err != nil {
		t.Fatalf("Whitelist check failed: %v", err)
	}
	if !ok {
		t.Error("Template tile URL not whitelisted")
	}

	ok, err = svc.IsWhitelisted(ctx, "https://tiles.example.com/cog/a/b/c.tif")
	if err != nil {
		t.Fatalf("Whitelist check failed: %v", err)
	}
	if ok {
		t.Error("Non-numeric tile coordinates accepted")
	}
}

// testOwnershipTransfer verifies erasure reassigns content to the
// placeholder account inside one transaction on the real dialect.
func testOwnershipTransfer(t *testing.T, db *gorm.DB) {
	doomed, err := services.EnsureUser(db, "authz-transfer-doomed", "bye@example.com", "")
	if err != nil {
		t.Fatalf("Failed to provision user: %v", err)
	}
	title := "Orphaned plan"
	m, err := services.CreateMap(db, doomed.ID, services.MapInput{Title: &title})
	if err != nil {
		t.Fatalf("Failed to create map: %v", err)
	}

	if err := services.DeleteUserWithOwnershipTransfer(db, doomed.AuthzID); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("id = ?", doomed.ID).Count(&count)
	if count != 0 {
		t.Error("Deleted user row still present")
	}

	var transferred models.Map
	if err := db.Where("id = ?", m.ID).First(&transferred).Error; err != nil {
		t.Fatalf("Transferred map missing: %v", err)
	}
	var placeholder models.User
	if err := db.Where("authz_id = ?", "deleted-user").First(&placeholder).Error; err != nil {
		t.Fatalf("Placeholder account missing: %v", err)
	}
	if transferred.OwnerID != placeholder.ID {
		t.Errorf("Map owner = %s, want placeholder %s", transferred.OwnerID, placeholder.ID)
	}
}
