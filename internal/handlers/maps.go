// maps.go
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
	"github.com/Mistra-C2B2/samsyn-sub000/internal/types"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MapHandler handles map routes
type MapHandler struct {
	DB *gorm.DB
}

// CreateMap handles POST /api/maps
// @Summary Create a map
// @Description Create a map owned by the authenticated user
// @Tags Maps
// @Accept json
// @Produce json
// @Param body body services.MapInput true "Map fields"
// @Success 201 {object} models.Map
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /maps [post]
func (h *MapHandler) CreateMap(c *fiber.Ctx) error {
	var in services.MapInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "maps.validation.input")
	}

	m, err := services.CreateMap(h.DB, requestUserID(c), in)
	if err != nil {
		return serviceError(c, err, "maps.create")
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// ListMyMaps handles GET /api/maps
// @Summary List my maps
// @Description List maps the authenticated user owns or collaborates on
// @Tags Maps
// @Produce json
// @Success 200 {array} models.Map
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /maps [get]
func (h *MapHandler) ListMyMaps(c *fiber.Ctx) error {
	maps, err := services.ListMyMaps(h.DB, requestUserID(c))
	if err != nil {
		return serviceError(c, err, "maps.list")
	}
	return c.Status(fiber.StatusOK).JSON(maps)
}

// GetMap handles GET /api/maps/:id
// @Summary Get a map
// @Description Get a map with its layers and collaborators, honoring the view permission
// @Tags Maps
// @Produce json
// @Param id path string true "Map ID"
// @Success 200 {object} models.Map
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id} [get]
func (h *MapHandler) GetMap(c *fiber.Ctx) error {
	m, err := services.GetMap(h.DB, c.Params("id"), requestUserID(c))
	if err != nil {
		return serviceError(c, err, "maps.get")
	}
	return c.Status(fiber.StatusOK).JSON(m)
}

// UpdateMap handles PUT /api/maps/:id
// @Summary Update a map
// @Description Update map fields; permission fields are owner-only
// @Tags Maps
// @Accept json
// @Produce json
// @Param id path string true "Map ID"
// @Param body body services.MapInput true "Fields to update"
// @Success 200 {object} models.Map
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id} [put]
func (h *MapHandler) UpdateMap(c *fiber.Ctx) error {
	var in services.MapInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "maps.validation.input")
	}

	m, err := services.UpdateMap(h.DB, c.Params("id"), requestUserID(c), in)
	if err != nil {
		return serviceError(c, err, "maps.update")
	}
	return c.Status(fiber.StatusOK).JSON(m)
}

// DeleteMap handles DELETE /api/maps/:id
// @Summary Delete a map
// @Description Delete a map and its collaborators, layer associations and comments. Owner only.
// @Tags Maps
// @Produce json
// @Param id path string true "Map ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id} [delete]
func (h *MapHandler) DeleteMap(c *fiber.Ctx) error {
	if err := services.DeleteMap(h.DB, c.Params("id"), requestUserID(c)); err != nil {
		return serviceError(c, err, "maps.delete")
	}
	return utils.MutationSuccessResponse(c)
}

// AddMapLayer handles POST /api/maps/:id/layers
// @Summary Add a layer to a map
// @Tags Maps
// @Accept json
// @Produce json
// @Param id path string true "Map ID"
// @Param body body object true "Layer id and optional style"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id}/layers [post]
func (h *MapHandler) AddMapLayer(c *fiber.Ctx) error {
	var body struct {
		LayerID string      `json:"layer_id"`
		Style   interface{} `json:"style,omitempty"`
	}
	if err := c.BodyParser(&body); err != nil || body.LayerID == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "maps.validation.input")
	}

	if err := services.AddMapLayer(h.DB, c.Params("id"), requestUserID(c), body.LayerID, body.Style); err != nil {
		return serviceError(c, err, "maps.layers.add")
	}
	return utils.MutationSuccessResponse(c)
}

// UpdateMapLayer handles PUT /api/maps/:id/layers/:layerId
// @Summary Update a map layer style override
// @Tags Maps
// @Accept json
// @Produce json
// @Param id path string true "Map ID"
// @Param layerId path string true "Layer ID"
// @Param body body object true "Style"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id}/layers/{layerId} [put]
func (h *MapHandler) UpdateMapLayer(c *fiber.Ctx) error {
	var body struct {
		Style interface{} `json:"style"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "maps.validation.input")
	}

	if err := services.UpdateMapLayerStyle(h.DB, c.Params("id"), requestUserID(c), c.Params("layerId"), body.Style); err != nil {
		return serviceError(c, err, "maps.layers.update")
	}
	return utils.MutationSuccessResponse(c)
}

// RemoveMapLayer handles DELETE /api/maps/:id/layers/:layerId
// @Summary Remove a layer from a map
// @Tags Maps
// @Produce json
// @Param id path string true "Map ID"
// @Param layerId path string true "Layer ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id}/layers/{layerId} [delete]
func (h *MapHandler) RemoveMapLayer(c *fiber.Ctx) error {
	if err := services.RemoveMapLayer(h.DB, c.Params("id"), requestUserID(c), c.Params("layerId")); err != nil {
		return serviceError(c, err, "maps.layers.remove")
	}
	return utils.MutationSuccessResponse(c)
}

// ReorderMapLayers handles PUT /api/maps/:id/layers
// @Summary Reorder the layers of a map
// @Description Rewrite the layer ordering from the full ordered id list. A single id is accepted without array brackets.
// @Tags Maps
// @Accept json
// @Produce json
// @Param id path string true "Map ID"
// @Param body body object true "Ordered layer ids"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id}/layers [put]
func (h *MapHandler) ReorderMapLayers(c *fiber.Ctx) error {
	var body struct {
		Layers types.FlexList[string] `json:"layers"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Layers) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "maps.validation.input")
	}

	if err := services.ReorderMapLayers(h.DB, c.Params("id"), requestUserID(c), body.Layers.Slice()); err != nil {
		return serviceError(c, err, "maps.layers.reorder")
	}
	return utils.MutationSuccessResponse(c)
}
