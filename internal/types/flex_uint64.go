// flex_uint64.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexUint64 accepts a JSON number or a numeric JSON string. Authorizer
// webhook payloads quote their epoch timestamps.
type FlexUint64 uint64

func (f *FlexUint64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("flex uint64: %q is not numeric: %w", s, err)
		}
		*f = FlexUint64(v)
		return nil
	}

	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("flex uint64: expected number or numeric string, got %s", data)
	}
	*f = FlexUint64(v)
	return nil
}

func (f FlexUint64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(f), 10)), nil
}

// Uint64 returns the plain integer form.
func (f FlexUint64) Uint64() uint64 {
	return uint64(f)
}
