// comments.go
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

// CommentHandler handles comment routes
type CommentHandler struct {
	DB *gorm.DB
}

// CreateComment handles POST /api/comments
// @Summary Create a comment
// @Description Annotate exactly one of a map or a layer; replies must share the parent's target
// @Tags Comments
// @Accept json
// @Produce json
// @Param body body services.CommentInput true "Comment fields"
// @Success 201 {object} models.Comment
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /comments [post]
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	var in services.CommentInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "comments.validation.input")
	}

	comment, err := services.CreateComment(h.DB, requestUserID(c), in)
	if err != nil {
		return serviceError(c, err, "comments.create")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListMapComments handles GET /api/maps/:id/comments
// @Summary List a map's comment threads
// @Tags Comments
// @Produce json
// @Param id path string true "Map ID"
// @Success 200 {array} services.CommentNode
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{id}/comments [get]
func (h *CommentHandler) ListMapComments(c *fiber.Ctx) error {
	tree, err := services.ListMapComments(h.DB, c.Params("id"), requestUserID(c))
	if err != nil {
		return serviceError(c, err, "comments.list")
	}
	return c.Status(fiber.StatusOK).JSON(tree)
}

// ListLayerComments handles GET /api/layers/:id/comments
// @Summary List a layer's comment threads
// @Tags Comments
// @Produce json
// @Param id path string true "Layer ID"
// @Success 200 {array} services.CommentNode
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /layers/{id}/comments [get]
func (h *CommentHandler) ListLayerComments(c *fiber.Ctx) error {
	tree, err := services.ListLayerComments(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "comments.list")
	}
	return c.Status(fiber.StatusOK).JSON(tree)
}

// ResolveComment handles PUT /api/comments/:id/resolved
// @Summary Set a comment's resolution flag
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Param body body object true "Resolved flag"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /comments/{id}/resolved [put]
func (h *CommentHandler) ResolveComment(c *fiber.Ctx) error {
	var body struct {
		Resolved bool `json:"resolved"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "comments.validation.input")
	}

	if err := services.SetCommentResolved(h.DB, c.Params("id"), requestUserID(c), body.Resolved); err != nil {
		return serviceError(c, err, "comments.resolve")
	}
	return utils.MutationSuccessResponse(c)
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete a comment and its replies
// @Tags Comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	if err := services.DeleteComment(h.DB, c.Params("id"), requestUserID(c)); err != nil {
		return serviceError(c, err, "comments.delete")
	}
	return utils.MutationSuccessResponse(c)
}
