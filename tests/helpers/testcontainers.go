// Helpers for running integration tests against real containers.
// Starts a database and an Authorizer identity container on a shared
// network; the server under test runs in-process against them.
// Expects environment variables to be loaded from .env files.

package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Mistra-C2B2/samsyn-sub000/data"
)

type TestContainers struct {
	Network             *testcontainers.DockerNetwork
	DBContainer         testcontainers.Container
	AuthorizerContainer testcontainers.Container

	// Host-side coordinates for the in-process server under test.
	DBHost   string
	DBPort   string
	AuthzURL string
}

func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.AuthorizerContainer != nil {
		if err := tc.AuthorizerContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Authorizer: %v", err)
		}
	}
	if tc.DBContainer != nil {
		if err := tc.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate database: %v", err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// CreateAllTestContainers starts the database and Authorizer containers.
// Pass a nil *testing.T when calling outside a test binary.
func CreateAllTestContainers(t *testing.T) (*TestContainers, error) {
	ctx := context.Background()
	tc := &TestContainers{}

	nw, err := network.New(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to create network")
	}
	tc.Network = nw
	networkName := nw.Name

	dbType := envOr("DB_TYPE", "postgres")
	dbNetworkName := envOr("DB_HOST", "samsyn-db")
	tcpDbPort, err := nat.NewPort("tcp", envOr("DB_PORT", defaultDBPort(dbType)))
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to create DB port")
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        envOr("DB_IMAGE", defaultDBImage(dbType)),
			ExposedPorts: []string{string(tcpDbPort)},
			Env:          dbInitEnv(dbType),
			WaitingFor:   wait.ForListeningPort(tcpDbPort).WithStartupTimeout(60 * time.Second),
			Networks:     []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {dbNetworkName},
			},
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to start database")
	}
	tc.DBContainer = dbContainer

	dbHost, _ := dbContainer.Host(ctx)
	dbPort, _ := dbContainer.MappedPort(ctx, tcpDbPort)
	tc.DBHost = dbHost
	tc.DBPort = dbPort.Port()

	switch dbType {
	case "postgres", "postgresql":
		err = initPostgres(dbHost, dbPort)
	case "mysql", "mariadb":
		err = initMySQL(dbHost, dbPort)
	default:
		err = fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to initialize database")
	}

	authzNetworkName := "authorizer"
	tcpAuthzPort, err := nat.NewPort("tcp", envOr("AUTHZ_PORT", "8080"))
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to create Authorizer port")
	}

	authorizerContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        envOr("AUTHZ_IMAGE", "lakhansamani/authorizer:1.4.4"),
			ExposedPorts: []string{string(tcpAuthzPort)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     envOr("AUTHZ_CLIENT_ID", "samsyn-test"),
				"PORT":          tcpAuthzPort.Port(),
				"DATABASE_TYPE": "sqlite",
				"DATABASE_URL":  "authorizer.db",
				"ADMIN_SECRET":  envOr("AUTHZ_ADMIN_SECRET", "samsyn-admin-secret"),
				"ROLES":         "admin,user",
				"DEFAULT_ROLES": "user",
			},
			WaitingFor: wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
			Networks:   []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {authzNetworkName},
			},
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to start Authorizer")
	}
	tc.AuthorizerContainer = authorizerContainer

	authzHost, _ := authorizerContainer.Host(ctx)
	authzPort, _ := authorizerContainer.MappedPort(ctx, tcpAuthzPort)
	tc.AuthzURL = fmt.Sprintf("http://%s:%s", authzHost, authzPort.Port())
	logMessage(t, "AUTHZ_URL=%s", tc.AuthzURL)
	logMessage(t, "DB=%s:%s", tc.DBHost, tc.DBPort)

	return tc, nil
}

func defaultDBPort(dbType string) string {
	if dbType == "mysql" || dbType == "mariadb" {
		return "3306"
	}
	return "5432"
}

func defaultDBImage(dbType string) string {
	if dbType == "mysql" || dbType == "mariadb" {
		return "mariadb:11"
	}
	return "postgres:16-alpine"
}

func dbInitEnv(dbType string) map[string]string {
	switch dbType {
	case "mysql", "mariadb":
		return map[string]string{
			"MYSQL_ROOT_PASSWORD": envOr("DB_ROOT_PASSWORD", "samsyn-root"),
			"MYSQL_DATABASE":      envOr("DB_DATABASE", "samsyn"),
			"MYSQL_USER":          envOr("DB_USER", "samsyn"),
			"MYSQL_PASSWORD":      envOr("DB_PASSWORD", "samsyn"),
		}
	default:
		return map[string]string{
			"POSTGRES_DB":       envOr("DB_DATABASE", "samsyn"),
			"POSTGRES_USER":     envOr("DB_USER", "samsyn"),
			"POSTGRES_PASSWORD": envOr("DB_PASSWORD", "samsyn"),
		}
	}
}

func initPostgres(host string, port nat.Port) error {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host,
		envOr("DB_USER", "samsyn"),
		envOr("DB_PASSWORD", "samsyn"),
		envOr("DB_DATABASE", "samsyn"),
		port.Port(),
	)

	var db *gorm.DB
	var err error
	for i := 0; i < 30; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		return fmt.Errorf("postgres not ready: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return executeSQL(sqlDB, data.InitdbPostgres)
}

func initMySQL(host string, port nat.Port) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/",
		envOr("DB_ROOT_PASSWORD", "samsyn-root"), host, port.Port()))
	if err != nil {
		return err
	}
	defer db.Close()

	for i := 0; i < 30; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		return fmt.Errorf("mysql not ready: %w", err)
	}

	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", envOr("DB_DATABASE", "samsyn")))
	return err
}

// executeSQL runs a multi-statement script, one statement at a time.
// Full-line comments are dropped; statements end at a semicolon.
func executeSQL(db *sql.DB, script string) error {
	var kept []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	for _, stmt := range strings.Split(strings.Join(kept, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("%w: when executing > %s", err, stmt)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	} else {
		fmt.Printf(msg+": %v\n", err)
		os.Exit(1)
	}
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
