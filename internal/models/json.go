// json.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package models

import (
	"database/sql/driver"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSON wraps gorm.io/datatypes.JSON so viewport, metadata, source-config
// and capabilities columns map to a native JSON type on every supported
// driver. On Postgres this is JSONB, which keeps the whitelist fallback
// scan over source_config indexable.
type JSON struct {
	datatypes.JSON
}

// NewJSON marshals v into a JSON column value. A marshal failure yields
// an empty column rather than an error; inputs are validated upstream.
func NewJSON(v interface{}) JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return JSON{}
	}
	return JSON{JSON: datatypes.JSON(b)}
}

// Value promotes the embedded JSON's Value method
func (j JSON) Value() (driver.Value, error) {
	return j.JSON.Value()
}

// Scan promotes the embedded JSON's Scan method
func (j *JSON) Scan(value interface{}) error {
	return j.JSON.Scan(value)
}

// GormDBDataType selects the column type per driver. MSSQL has no json
// type, so it falls back to NVARCHAR(MAX).
func (JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
