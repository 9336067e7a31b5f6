// auth.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package middleware

import (
	"fmt"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserKey is the context local under which the resolved internal user is
// stored. Anonymous requests passing through OptionalAuth leave it unset.
const UserKey = "user"

// Auth requires a valid Authorizer session and resolves (provisioning on
// first contact) the internal user for it.
func Auth(auth *services.AuthService, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveSession(c, auth, db)
		if err != nil {
			return err
		}
		c.Locals(UserKey, user)
		return c.Next()
	}
}

// OptionalAuth resolves the internal user when a session cookie is
// present but lets anonymous requests through. Routes behind it answer
// per-map/per-layer permission checks with the anonymous requester.
func OptionalAuth(auth *services.AuthService, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Cookies("cookie_session") == "" {
			return c.Next()
		}
		user, err := resolveSession(c, auth, db)
		if err != nil {
			// A stale or invalid cookie degrades to anonymous rather
			// than blocking access to public content
			return c.Next()
		}
		c.Locals(UserKey, user)
		return c.Next()
	}
}

// resolveSession validates the session cookie and maps the external
// identity onto an internal user row.
func resolveSession(c *fiber.Ctx, auth *services.AuthService, db *gorm.DB) (*models.User, error) {
	session := c.Cookies("cookie_session")
	if session == "" {
		return nil, &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    "authorization.session",
		}
	}

	identity, err := auth.ValidateSession(session, []string{"user"})
	if err != nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    "authorization.session",
		}
	}

	user, err := services.EnsureUser(db, identity.AuthzID, identity.Email, "")
	if err != nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusInternalServerError,
			Message: fmt.Sprintf("Failed to resolve user: %v", err),
			Type:    "authorization.identity",
		}
	}
	return user, nil
}
