// main.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

// Command healthcheck probes the database and the Authorizer service and
// exits non-zero when either is down. Used as a container health probe.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/config"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/database"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	result := services.HealthCheck(cfg, db)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}
	fmt.Println(string(output))

	if result.Status != "healthy" {
		os.Exit(1)
	}
}
