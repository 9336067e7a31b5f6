// version.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const defaultAPIVersion = "1.0.0"

// VersionMiddleware resolves the X-Api-Version request header, stores the
// resolved version in the request context and echoes it on the response.
func VersionMiddleware() fiber.Handler {
	aliases := map[string]string{
		"":    defaultAPIVersion,
		"1":   defaultAPIVersion,
		"1.0": defaultAPIVersion,
	}

	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version")
		if canonical, ok := aliases[version]; ok {
			version = canonical
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", version)

		return c.Next()
	}
}
