// embed.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package data

import (
	_ "embed"
)

//go:embed initdb/postgres/001-init.sql
var InitdbPostgres string

//go:embed initdb/postgres/002-seed.sql
var SeedPostgres string
