// common.go
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

	"github.com/Mistra-C2B2/samsyn-sub000/internal/middleware"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// requestUser returns the authenticated internal user, or nil for an
// anonymous request behind OptionalAuth.
func requestUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(middleware.UserKey).(*models.User)
	return user
}

// requestUserID returns the requester's internal id, empty for anonymous.
func requestUserID(c *fiber.Ctx) string {
	if user := requestUser(c); user != nil {
		return user.ID
	}
	return ""
}

// serviceError translates service-layer sentinels into the error
// envelope. Permission denials and absent rows both answer 404 for
// requesters who could not know the resource exists, so an id probe
// leaks nothing; callers that can distinguish pass their own handler.
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, "Resource not found")
	case errors.Is(err, services.ErrNotPermitted):
		return utils.NotFoundResponse(c, "Resource not found or not accessible")
	case errors.Is(err, services.ErrValidation):
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, errorType)
	case errors.Is(err, services.ErrUpstream):
		return utils.ErrorResponse(c, "Upstream service unavailable", fiber.StatusServiceUnavailable, errorType)
	default:
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
	}
}
