// ping.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

const authzPingTimeout = 1500 * time.Millisecond

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// PingService opens and closes a TCP connection to the host behind the URL.
// It proves reachability only, not protocol health.
func PingService(serviceURL string, timeout time.Duration) error {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", serviceURL, err)
	}

	port := u.Port()
	if port == "" {
		var ok bool
		if port, ok = defaultPorts[u.Scheme]; !ok {
			port = "80"
		}
	}

	addr := net.JoinHostPort(u.Hostname(), port)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("unreachable at %s: %w", addr, err)
	}
	return conn.Close()
}

// PingAuthorizer checks that the Authorizer identity service is reachable.
func PingAuthorizer(authzURL string) error {
	return PingService(authzURL, authzPingTimeout)
}
