// wms.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package handlers

import (
	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// WmsServerHandler handles WMS server registry routes
type WmsServerHandler struct {
	DB *gorm.DB
}

// RegisterWmsServer handles POST /api/wms-servers
// @Summary Register a WMS server
// @Description Registering an already-known URL returns the existing record
// @Tags WmsServers
// @Accept json
// @Produce json
// @Param body body object true "Server URL"
// @Success 201 {object} models.WmsServer
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /wms-servers [post]
func (h *WmsServerHandler) RegisterWmsServer(c *fiber.Ctx) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&body); err != nil || body.URL == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "wms.validation.input")
	}

	server, err := services.RegisterWmsServer(h.DB, requestUserID(c), body.URL)
	if err != nil {
		return serviceError(c, err, "wms.register")
	}
	return c.Status(fiber.StatusCreated).JSON(server)
}

// ListWmsServers handles GET /api/wms-servers
// @Summary List registered WMS servers
// @Description Read access is unrestricted
// @Tags WmsServers
// @Produce json
// @Success 200 {array} models.WmsServer
// @Router /wms-servers [get]
func (h *WmsServerHandler) ListWmsServers(c *fiber.Ctx) error {
	servers, err := services.ListWmsServers(h.DB)
	if err != nil {
		return serviceError(c, err, "wms.list")
	}
	return c.Status(fiber.StatusOK).JSON(servers)
}

// GetWmsServer handles GET /api/wms-servers/:id
// @Summary Get a registered WMS server
// @Tags WmsServers
// @Produce json
// @Param id path string true "Server ID"
// @Success 200 {object} models.WmsServer
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /wms-servers/{id} [get]
func (h *WmsServerHandler) GetWmsServer(c *fiber.Ctx) error {
	server, err := services.GetWmsServer(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "wms.get")
	}
	return c.Status(fiber.StatusOK).JSON(server)
}

// RefreshWmsServer handles POST /api/wms-servers/:id/refresh
// @Summary Refresh the capabilities snapshot
// @Description Creator only. Fetches GetCapabilities with a bounded timeout; upstream failure keeps the previous snapshot
// @Tags WmsServers
// @Produce json
// @Param id path string true "Server ID"
// @Success 200 {object} models.WmsServer
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /wms-servers/{id}/refresh [post]
func (h *WmsServerHandler) RefreshWmsServer(c *fiber.Ctx) error {
	server, err := services.RefreshWmsCapabilities(c.Context(), h.DB, c.Params("id"), requestUserID(c))
	if err != nil {
		return serviceError(c, err, "wms.refresh")
	}
	return c.Status(fiber.StatusOK).JSON(server)
}

// DeleteWmsServer handles DELETE /api/wms-servers/:id
// @Summary Delete a registered WMS server
// @Description Creator only
// @Tags WmsServers
// @Produce json
// @Param id path string true "Server ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /wms-servers/{id} [delete]
func (h *WmsServerHandler) DeleteWmsServer(c *fiber.Ctx) error {
	if err := services.DeleteWmsServer(h.DB, c.Params("id"), requestUserID(c)); err != nil {
		return serviceError(c, err, "wms.delete")
	}
	return utils.MutationSuccessResponse(c)
}
