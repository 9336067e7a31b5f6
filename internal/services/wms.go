// wms.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package services

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// wmsFetchTimeout bounds the GetCapabilities round trip.
const wmsFetchTimeout = 20 * time.Second

// capabilitiesBodyLimit caps how much capability XML is stored.
const capabilitiesBodyLimit = 4 << 20

// RegisterWmsServer records a WMS endpoint under its normalized base URL.
// Registering an already-known URL returns the existing row, so repeated
// registration is idempotent for every caller.
func RegisterWmsServer(db *gorm.DB, creatorID, rawURL string) (*models.WmsServer, error) {
	normalized := utils.NormalizeURL(rawURL)
	if normalized == "" {
		return nil, ErrValidation
	}

	var existing models.WmsServer
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("url = ?", normalized).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	server := models.WmsServer{URL: normalized, CreatorID: creatorID}
	if createErr := db.Create(&server).Error; createErr != nil {
		// Concurrent registration of the same URL: the unique index wins,
		// re-fetch and report success.
		var again models.WmsServer
		if err := db.Where("url = ?", normalized).First(&again).Error; err == nil {
			return &again, nil
		}
		return nil, createErr
	}
	return &server, nil
}

// ListWmsServers returns every registered server. Reads are unrestricted.
func ListWmsServers(db *gorm.DB) ([]models.WmsServer, error) {
	var servers []models.WmsServer
	if err := db.Order("url").Find(&servers).Error; err != nil {
		return nil, err
	}
	return servers, nil
}

// GetWmsServer fetches one server by id.
func GetWmsServer(db *gorm.DB, id string) (*models.WmsServer, error) {
	var server models.WmsServer
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", id).First(&server).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &server, nil
}

// RefreshWmsCapabilities fetches a fresh GetCapabilities document and
// stores it with the fetch timestamp. Creator only, like every other
// mutation of a registered server. A timeout or upstream failure is
// reported as ErrUpstream and leaves the previous snapshot in place.
func RefreshWmsCapabilities(ctx context.Context, db *gorm.DB, id, requesterID string) (*models.WmsServer, error) {
	server, err := GetWmsServer(db, id)
	if err != nil {
		return nil, err
	}
	if server.CreatorID != requesterID {
		return nil, ErrNotPermitted
	}

	ctx, cancel := context.WithTimeout(ctx, wmsFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		server.URL+"?service=WMS&request=GetCapabilities", nil)
	if err != nil {
		return nil, ErrUpstream
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrUpstream
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, capabilitiesBodyLimit))
	if err != nil {
		return nil, ErrUpstream
	}

	// The raw XML is stored as a JSON string; capability parsing lives
	// with the frontend consumers.
	now := time.Now().UTC()
	snapshot := models.NewJSON(map[string]interface{}{
		"raw":        string(body),
		"fetched_at": now.Format(time.RFC3339),
	})

	updates := map[string]interface{}{
		"capabilities": snapshot,
		"cached_at":    now,
	}
	if err := db.Model(server).Updates(updates).Error; err != nil {
		return nil, err
	}

	server.Capabilities = snapshot
	server.CachedAt = &now
	return server, nil
}

// DeleteWmsServer removes a registered server. Creator only.
func DeleteWmsServer(db *gorm.DB, id, requesterID string) error {
	server, err := GetWmsServer(db, id)
	if err != nil {
		return err
	}
	if server.CreatorID != requesterID {
		return ErrNotPermitted
	}
	return db.Delete(&models.WmsServer{}, "id = ?", id).Error
}
