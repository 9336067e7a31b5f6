// layers.go
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

// LayerHandler handles layer routes. Whitelist is invalidated after
// every layer mutation so the tile proxy does not keep serving URLs of a
// deleted or rewritten source for the rest of the cache TTL.
type LayerHandler struct {
	DB        *gorm.DB
	Whitelist *services.WhitelistService
}

func (h *LayerHandler) invalidateWhitelist() {
	if h.Whitelist != nil {
		h.Whitelist.ClearCache()
	}
}

// ListLayers handles GET /api/layers
// @Summary List the layer library
// @Description Global layers, own layers, and public layers by others. Anonymous requesters see global and public layers only.
// @Tags Layers
// @Produce json
// @Success 200 {array} models.Layer
// @Router /layers [get]
func (h *LayerHandler) ListLayers(c *fiber.Ctx) error {
	layers, err := services.ListLibraryLayers(h.DB, requestUserID(c))
	if err != nil {
		return serviceError(c, err, "layers.list")
	}
	return c.Status(fiber.StatusOK).JSON(layers)
}

// ListMyLayers handles GET /api/layers/mine
// @Summary List my layers
// @Description The requester's explicitly user-created layers, excluding system-seeded and global ones
// @Tags Layers
// @Produce json
// @Success 200 {array} models.Layer
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /layers/mine [get]
func (h *LayerHandler) ListMyLayers(c *fiber.Ctx) error {
	layers, err := services.ListMyLayers(h.DB, requestUserID(c))
	if err != nil {
		return serviceError(c, err, "layers.mine")
	}
	return c.Status(fiber.StatusOK).JSON(layers)
}

// CreateLayer handles POST /api/layers
// @Summary Create a layer
// @Tags Layers
// @Accept json
// @Produce json
// @Param body body services.LayerInput true "Layer fields"
// @Success 201 {object} models.Layer
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /layers [post]
func (h *LayerHandler) CreateLayer(c *fiber.Ctx) error {
	var in services.LayerInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "layers.validation.input")
	}

	layer, err := services.CreateLayer(h.DB, requestUserID(c), in)
	if err != nil {
		return serviceError(c, err, "layers.create")
	}
	h.invalidateWhitelist()
	return c.Status(fiber.StatusCreated).JSON(layer)
}

// GetLayer handles GET /api/layers/:id
// @Summary Get a layer
// @Tags Layers
// @Produce json
// @Param id path string true "Layer ID"
// @Success 200 {object} models.Layer
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /layers/{id} [get]
func (h *LayerHandler) GetLayer(c *fiber.Ctx) error {
	layer, err := services.GetLayer(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "layers.get")
	}
	return c.Status(fiber.StatusOK).JSON(layer)
}

// UpdateLayer handles PUT /api/layers/:id
// @Summary Update a layer
// @Description Content edits need edit rights; the editable and visibility switches stay with the creator
// @Tags Layers
// @Accept json
// @Produce json
// @Param id path string true "Layer ID"
// @Param body body services.LayerInput true "Fields to update"
// @Success 200 {object} models.Layer
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /layers/{id} [put]
func (h *LayerHandler) UpdateLayer(c *fiber.Ctx) error {
	var in services.LayerInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "layers.validation.input")
	}

	layer, err := services.UpdateLayer(h.DB, c.Params("id"), requestUserID(c), in)
	if err != nil {
		return serviceError(c, err, "layers.update")
	}
	h.invalidateWhitelist()
	return c.Status(fiber.StatusOK).JSON(layer)
}

// DeleteLayer handles DELETE /api/layers/:id
// @Summary Delete a layer
// @Description Creator only; an everyone-editable grant never includes delete
// @Tags Layers
// @Produce json
// @Param id path string true "Layer ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /layers/{id} [delete]
func (h *LayerHandler) DeleteLayer(c *fiber.Ctx) error {
	if err := services.DeleteLayer(h.DB, c.Params("id"), requestUserID(c)); err != nil {
		return serviceError(c, err, "layers.delete")
	}
	h.invalidateWhitelist()
	return utils.MutationSuccessResponse(c)
}
