// auth_service.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package services

import (
	"fmt"
	"log"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/config"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/utils"
	"github.com/authorizerdev/authorizer-go"
)

// AuthService validates Authorizer sessions. It is constructed once at
// startup and injected into the middleware that needs it; there is no
// package-level client.
type AuthService struct {
	client *authorizer.AuthorizerClient
}

// NewAuthService pings the Authorizer service and builds the client.
// A missing or unreachable Authorizer is fatal at startup, never
// per-request.
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}

	log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s",
		cfg.AuthzURL, cfg.AuthzClientID)

	client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}

	return &AuthService{client: client}, nil
}

// SessionIdentity is the subset of the Authorizer user the backend needs
// to resolve an internal user.
type SessionIdentity struct {
	AuthzID string
	Email   string
}

// ValidateSession validates a session cookie for the given roles and
// returns the external identity it belongs to.
func (s *AuthService) ValidateSession(cookie string, roles []string) (*SessionIdentity, error) {
	// Convert roles to []*string
	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := s.client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid {
		return nil, fmt.Errorf("session is not valid")
	}

	return &SessionIdentity{
		AuthzID: res.User.ID,
		Email:   res.User.Email,
	}, nil
}
