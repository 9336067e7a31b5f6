// errors.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package services

import "errors"

// Sentinel outcomes shared by the service layer. Handlers translate these
// to HTTP statuses; permission evaluators themselves return booleans and
// roles, never errors, for expected "no" answers.
var (
	// ErrNotFound means the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotPermitted means the requester lacks the required role. It also
	// covers mutations rejected by policy, like adding the map owner as a
	// collaborator or a duplicate collaborator add.
	ErrNotPermitted = errors.New("not permitted")

	// ErrValidation means the input violates a structural rule before any
	// row was written.
	ErrValidation = errors.New("invalid input")

	// ErrUpstream means an outbound call to an external service timed out
	// or failed.
	ErrUpstream = errors.New("upstream unavailable")

	// ErrAlreadyDeleted means the user targeted by a deletion no longer
	// exists; the operation is an idempotent no-op.
	ErrAlreadyDeleted = errors.New("already deleted")
)
