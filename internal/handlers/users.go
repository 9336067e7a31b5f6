// users.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package handlers

import (
	"crypto/subtle"
	"errors"
	"log"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/types"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserHandler handles user identity routes
type UserHandler struct {
	DB *gorm.DB

	// WebhookSecret guards the Authorizer webhook endpoint; empty
	// disables the check (local development)
	WebhookSecret string
}

// GetMe handles GET /api/users/me
// @Summary Get the authenticated user
// @Tags Users
// @Produce json
// @Success 200 {object} models.User
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(requestUser(c))
}

// DeleteMe handles DELETE /api/users/me
// @Summary Delete the authenticated user
// @Description Erase the identity; owned maps, layers, comments and collaborations are reassigned to the placeholder account in one transaction
// @Tags Users
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /users/me [delete]
func (h *UserHandler) DeleteMe(c *fiber.Ctx) error {
	user := requestUser(c)
	err := services.DeleteUserWithOwnershipTransfer(h.DB, user.AuthzID)
	if err != nil && !errors.Is(err, services.ErrAlreadyDeleted) {
		return serviceError(c, err, "users.delete")
	}
	return utils.MutationSuccessResponse(c)
}

// webhookEvent is one Authorizer event. Timestamps arrive as numbers or
// strings depending on the Authorizer version.
type webhookEvent struct {
	EventName      string                 `json:"event_name"`
	EventTimestamp types.FlexUint64       `json:"event_timestamp"`
	User           map[string]interface{} `json:"user"`
}

// AuthorizerWebhook handles POST /api/webhooks/authorizer
// @Summary Receive Authorizer events
// @Description user.deleted events trigger the same ownership transfer as self-service deletion and are idempotent; other events are acknowledged and ignored
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /webhooks/authorizer [post]
func (h *UserHandler) AuthorizerWebhook(c *fiber.Ctx) error {
	if h.WebhookSecret != "" {
		provided := c.Get("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(h.WebhookSecret)) != 1 {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Invalid webhook secret",
				Type:    "webhooks.authorization",
			}
		}
	}

	// Authorizer posts a single event object; older versions batched
	var events types.FlexList[webhookEvent]
	if err := c.BodyParser(&events); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "webhooks.validation.input")
	}

	for _, event := range events.Slice() {
		if event.EventName != "user.deleted" {
			continue
		}
		authzID, _ := event.User["id"].(string)
		if authzID == "" {
			continue
		}

		err := services.DeleteUserWithOwnershipTransfer(h.DB, authzID)
		if err != nil && !errors.Is(err, services.ErrAlreadyDeleted) {
			log.Printf("Webhook user deletion failed for %s: %v", authzID, err)
			return utils.ErrorResponse(c, "Deletion failed", fiber.StatusInternalServerError, "webhooks.delete")
		}
	}

	return utils.MutationSuccessResponse(c)
}
