// flex_list.go
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
)

// FlexList accepts either a JSON array or a bare JSON value where a list is
// expected. Webhook senders and older clients post single objects without the
// surrounding brackets.
type FlexList[T any] []T

func (f *FlexList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}

	if data[0] == '[' {
		return json.Unmarshal(data, (*[]T)(f))
	}

	var single T
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*f = FlexList[T]{single}
	return nil
}

// Slice returns the plain slice form.
func (f FlexList[T]) Slice() []T {
	return []T(f)
}
