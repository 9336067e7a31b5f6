// error.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package types

import "fmt"

// CustomError carries an HTTP status code and a short machine-readable type
// alongside the message, so the global error handler can shape the response.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Type, e.Code, e.Message)
}

// NewCustomError builds a CustomError for the given status code.
func NewCustomError(code int, message, errType string) *CustomError {
	return &CustomError{Code: code, Message: message, Type: errType}
}
