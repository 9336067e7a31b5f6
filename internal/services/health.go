// health.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package services

import (
	"fmt"
	"log"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/config"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult reports the reachability of the backing services.
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Authorizer   string            `json:"authorizer"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

func (r *HealthCheckResult) fail(component, detail string, err error) {
	r.Status = "unhealthy"
	r.Details[detail] = err.Error()
	msg := fmt.Sprintf("%s: %v", component, err)
	if r.ErrorMessage == "" {
		r.ErrorMessage = msg
	} else {
		r.ErrorMessage += "; " + msg
	}
	log.Printf("Health check failed - %s", msg)
}

// HealthCheck probes the database and the Authorizer service.
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	result.Database = probeDatabase(cfg, db, &result)
	result.Authorizer = probeAuthorizer(cfg, &result)

	return result
}

func probeDatabase(cfg *config.Config, db *gorm.DB, result *HealthCheckResult) string {
	sqlDB, err := db.DB()
	if err != nil {
		result.fail("Database connection error", "database_error", err)
		return "error"
	}
	if err := sqlDB.Ping(); err != nil {
		result.fail("Database ping failed", "database_ping_error", err)
		return "unreachable"
	}
	result.Details["database_type"] = cfg.DBType
	result.Details["database_name"] = cfg.DBDatabase
	return "ok"
}

func probeAuthorizer(cfg *config.Config, result *HealthCheckResult) string {
	if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
		result.fail("Authorizer ping failed", "authorizer_error", err)
		return "unreachable"
	}
	result.Details["authorizer_url"] = cfg.AuthzURL
	return "ok"
}
