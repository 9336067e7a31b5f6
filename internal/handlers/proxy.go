// proxy.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package handlers

import (
	"strings"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/config"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
)

// ProxyHandler forwards tile requests to external services. Every target
// URL passes the whitelist service first; a rejected URL is answered
// locally without contacting any upstream, which is the SSRF guard.
type ProxyHandler struct {
	Whitelist *services.WhitelistService
	Cfg       *config.Config
}

// ProxyTile handles GET /api/proxy/tiles
// @Summary Proxy a whitelisted tile request
// @Description Forward the request iff the url parameter is whitelisted by layer configuration
// @Tags Proxy
// @Produce octet-stream
// @Param url query string true "Tile URL"
// @Success 200
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /proxy/tiles [get]
func (h *ProxyHandler) ProxyTile(c *fiber.Ctx) error {
	target := c.Query("url")
	if target == "" {
		return utils.ErrorResponse(c, "Missing url parameter", fiber.StatusBadRequest, "proxy.validation.input")
	}

	ok, err := h.Whitelist.IsWhitelisted(c.Context(), target)
	if err != nil {
		return utils.ErrorResponse(c, "Whitelist check failed", fiber.StatusInternalServerError, "proxy.whitelist")
	}
	if !ok {
		return utils.ErrorResponse(c, "URL is not whitelisted", fiber.StatusForbidden, "proxy.whitelist")
	}

	if err := proxy.DoTimeout(c, target, h.Cfg.ProxyTimeout); err != nil {
		return utils.ErrorResponse(c, "Upstream tile server unavailable", fiber.StatusBadGateway, "proxy.upstream")
	}
	c.Response().Header.Del(fiber.HeaderServer)
	return nil
}

// ProxyTitiler handles GET /api/proxy/titiler/*
// @Summary Proxy a TiTiler request
// @Description Forward to the configured TiTiler instance. A url parameter naming a source raster must be whitelisted.
// @Tags Proxy
// @Produce octet-stream
// @Param path path string true "TiTiler path"
// @Success 200
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /proxy/titiler/{path} [get]
func (h *ProxyHandler) ProxyTitiler(c *fiber.Ctx) error {
	if h.Cfg.TitilerURL == "" {
		return utils.ErrorResponse(c, "TiTiler is not configured", fiber.StatusServiceUnavailable, "proxy.titiler")
	}

	// The raster source handed to TiTiler is the SSRF vector, not the
	// TiTiler path itself
	if src := c.Query("url"); src != "" {
		ok, err := h.Whitelist.IsWhitelisted(c.Context(), src)
		if err != nil {
			return utils.ErrorResponse(c, "Whitelist check failed", fiber.StatusInternalServerError, "proxy.whitelist")
		}
		if !ok {
			return utils.ErrorResponse(c, "URL is not whitelisted", fiber.StatusForbidden, "proxy.whitelist")
		}
	}

	target := strings.TrimSuffix(h.Cfg.TitilerURL, "/") + "/" + c.Params("*")
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		target += "?" + qs
	}

	if err := proxy.DoTimeout(c, target, h.Cfg.ProxyTimeout); err != nil {
		return utils.ErrorResponse(c, "TiTiler unavailable", fiber.StatusBadGateway, "proxy.upstream")
	}
	c.Response().Header.Del(fiber.HeaderServer)
	return nil
}
