package types

import (
	"encoding/json"
	"testing"
)

func TestFlexListSingleValue(t *testing.T) {
	var f FlexList[string]
	if err := json.Unmarshal([]byte(`"alone"`), &f); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(f.Slice()) != 1 || f.Slice()[0] != "alone" {
		t.Errorf("got %v, want [alone]", f.Slice())
	}
}

func TestFlexListArray(t *testing.T) {
	var f FlexList[int]
	if err := json.Unmarshal([]byte(` [1, 2, 3] `), &f); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(f.Slice()) != 3 || f.Slice()[2] != 3 {
		t.Errorf("got %v, want [1 2 3]", f.Slice())
	}
}

func TestFlexListNull(t *testing.T) {
	var f FlexList[string]
	if err := json.Unmarshal([]byte(`null`), &f); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if f.Slice() != nil {
		t.Errorf("got %v, want nil", f.Slice())
	}
}

func TestFlexListObjectElement(t *testing.T) {
	type ev struct {
		Name string `json:"name"`
	}
	var f FlexList[ev]
	if err := json.Unmarshal([]byte(`{"name":"user.deleted"}`), &f); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(f.Slice()) != 1 || f.Slice()[0].Name != "user.deleted" {
		t.Errorf("got %+v", f.Slice())
	}
}

func TestFlexUint64(t *testing.T) {
	cases := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{`42`, 42, false},
		{`"42"`, 42, false},
		{` "1767225600" `, 1767225600, false},
		{`null`, 0, false},
		{`"not a number"`, 0, true},
		{`-1`, 0, true},
	}
	for _, tc := range cases {
		var f FlexUint64
		err := json.Unmarshal([]byte(tc.in), &f)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unmarshal failed: %v", tc.in, err)
			continue
		}
		if f.Uint64() != tc.want {
			t.Errorf("%s: got %d, want %d", tc.in, f.Uint64(), tc.want)
		}
	}
}

func TestFlexUint64Roundtrip(t *testing.T) {
	out, err := json.Marshal(FlexUint64(99))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != "99" {
		t.Errorf("got %s, want 99", out)
	}
}
