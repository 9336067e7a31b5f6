// whitelist.go
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

	"github.com/Mistra-C2B2/samsyn-sub000/internal/cache"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// WhitelistService authorizes tile-proxy targets. A URL is whitelisted
// when it equals a GeoTIFF layer's configured direct or COG URL, or
// matches a configured {z}/{x}/{y} template, after normalization. The
// decision cache keeps tile-heavy traffic off the database; negative
// results are cached too so a stream of junk URLs cannot force repeated
// table scans.
type WhitelistService struct {
	db    *gorm.DB
	cache *cache.Whitelist
}

// NewWhitelistService builds the service around an injected cache so
// tests and the server own the cache lifetime.
func NewWhitelistService(db *gorm.DB, c *cache.Whitelist) *WhitelistService {
	return &WhitelistService{db: db, cache: c}
}

// IsWhitelisted reports whether rawURL may be proxied. A database failure
// during the fallback scan is returned as an error and leaves the cache
// untouched; the next request retries.
func (s *WhitelistService) IsWhitelisted(ctx context.Context, rawURL string) (bool, error) {
	normalized := utils.NormalizeURL(rawURL)
	if normalized == "" {
		return false, nil
	}

	if hit, ok := s.cache.Get(normalized); ok {
		return hit, nil
	}

	whitelisted, err := s.scan(ctx, normalized)
	if err != nil {
		return false, err
	}

	s.cache.Set(normalized, whitelisted)
	return whitelisted, nil
}

// scan is the database fallback: direct URL equality first, template
// match second, first match wins.
func (s *WhitelistService) scan(ctx context.Context, normalized string) (bool, error) {
	var layers []models.Layer
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{Logger: s.db.Logger.LogMode(logger.Silent)}).
		Clauses(hints.CommentBefore("select", "whitelist fallback scan")).
		Select("id", "source_config").
		Where("layer_type = ?", models.LayerTypeGeoTIFF).
		Where(
			s.db.Where(datatypes.JSONQuery("source_config").HasKey("url")).
				Or(datatypes.JSONQuery("source_config").HasKey("cog_url")).
				Or(datatypes.JSONQuery("source_config").HasKey("cog_url_template")),
		).
		Find(&layers).Error
	if err != nil {
		return false, err
	}

	for _, layer := range layers {
		src := layer.Source()
		if src.URL != "" && utils.NormalizeURL(src.URL) == normalized {
			return true, nil
		}
		if src.COGURL != "" && utils.NormalizeURL(src.COGURL) == normalized {
			return true, nil
		}
	}

	for _, layer := range layers {
		src := layer.Source()
		if src.COGURLTemplate == "" {
			continue
		}
		if utils.MatchesTemplate(normalized, utils.NormalizeURL(src.COGURLTemplate)) {
			return true, nil
		}
	}

	return false, nil
}

// ClearCache drops every cached decision. Used after bulk layer imports
// and by tests.
func (s *WhitelistService) ClearCache() {
	s.cache.Clear()
}
