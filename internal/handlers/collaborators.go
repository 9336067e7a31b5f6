// collaborators.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package handlers

import (
	"errors"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CollaboratorHandler handles map collaborator routes
type CollaboratorHandler struct {
	DB *gorm.DB
}

// collaboratorError keeps the absence/permission conflation for
// requesters who cannot view the map, but answers an honest 403 for
// viewers who hit a role gate.
func (h *CollaboratorHandler) collaboratorError(c *fiber.Ctx, mapID string, err error, errorType string) error {
	if errors.Is(err, services.ErrNotPermitted) &&
		services.CanViewMap(h.DB, mapID, requestUserID(c)) {
		return utils.ForbiddenResponse(c, errorType)
	}
	return serviceError(c, err, errorType)
}

// ListCollaborators handles GET /api/maps/:id/collaborators
// @Summary List collaborators
// @Tags Collaborators
// @Produce json
// @Param id path string true "Map ID"
// @Success 200 {array} models.MapCollaborator
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id}/collaborators [get]
func (h *CollaboratorHandler) ListCollaborators(c *fiber.Ctx) error {
	rows, err := services.ListCollaborators(h.DB, c.Params("id"), requestUserID(c))
	if err != nil {
		return serviceError(c, err, "collaborators.list")
	}
	return c.Status(fiber.StatusOK).JSON(rows)
}

// AddCollaborator handles POST /api/maps/:id/collaborators
// @Summary Add a collaborator
// @Description Grant a user viewer or editor access. Only the owner may grant editor.
// @Tags Collaborators
// @Accept json
// @Produce json
// @Param id path string true "Map ID"
// @Param body body object true "User id and role"
// @Success 201 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id}/collaborators [post]
func (h *CollaboratorHandler) AddCollaborator(c *fiber.Ctx) error {
	var body struct {
		UserID string      `json:"user_id"`
		Role   models.Role `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil || body.UserID == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "collaborators.validation.input")
	}

	mapID := c.Params("id")
	if err := services.AddCollaborator(h.DB, mapID, requestUserID(c), body.UserID, body.Role); err != nil {
		return h.collaboratorError(c, mapID, err, "collaborators.add")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Success", "ok": true})
}

// UpdateCollaborator handles PUT /api/maps/:id/collaborators/:userId
// @Summary Change a collaborator's role
// @Description Owner only
// @Tags Collaborators
// @Accept json
// @Produce json
// @Param id path string true "Map ID"
// @Param userId path string true "User ID"
// @Param body body object true "Role"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id}/collaborators/{userId} [put]
func (h *CollaboratorHandler) UpdateCollaborator(c *fiber.Ctx) error {
	var body struct {
		Role models.Role `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "collaborators.validation.input")
	}

	mapID := c.Params("id")
	if err := services.UpdateCollaborator(h.DB, mapID, requestUserID(c), c.Params("userId"), body.Role); err != nil {
		return h.collaboratorError(c, mapID, err, "collaborators.update")
	}
	return utils.MutationSuccessResponse(c)
}

// RemoveCollaborator handles DELETE /api/maps/:id/collaborators/:userId
// @Summary Remove a collaborator
// @Description Owner only
// @Tags Collaborators
// @Produce json
// @Param id path string true "Map ID"
// @Param userId path string true "User ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id}/collaborators/{userId} [delete]
func (h *CollaboratorHandler) RemoveCollaborator(c *fiber.Ctx) error {
	mapID := c.Params("id")
	if err := services.RemoveCollaborator(h.DB, mapID, requestUserID(c), c.Params("userId")); err != nil {
		return h.collaboratorError(c, mapID, err, "collaborators.remove")
	}
	return utils.MutationSuccessResponse(c)
}
