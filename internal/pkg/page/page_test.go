package page

import (
	"encoding/json"
	"testing"
)

func TestUnmarshal_Envelope(t *testing.T) {
	var p Page[string]
	if err := json.Unmarshal([]byte(`{"results": ["a", "b"], "count": 7}`), &p); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(p.Results) != 2 || p.Count != 7 {
		t.Fatalf("unexpected page: %+v", p)
	}
}

func TestUnmarshal_BareArray(t *testing.T) {
	var p Page[string]
	if err := json.Unmarshal([]byte(`["a", "b", "c"]`), &p); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(p.Results) != 3 || p.Count != 3 {
		t.Fatalf("bare array should set count from length: %+v", p)
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	var p Page[string]
	if err := json.Unmarshal([]byte(`"nope"`), &p); err == nil {
		t.Fatal("expected an error for a non-list payload")
	}
}

func TestNew_NilResults(t *testing.T) {
	p := New[int](nil, 0)
	if p.Results == nil {
		t.Fatal("results must marshal as [] rather than null")
	}
}

func TestOffset(t *testing.T) {
	cases := []struct {
		pageNum, pageSize     int
		wantLimit, wantOffset int
	}{
		{1, 20, 20, 0},
		{3, 10, 10, 20},
		{0, 10, 10, 0},
		{2, 0, 20, 20},
		{1, 500, 20, 0},
	}
	for _, tc := range cases {
		limit, offset := Offset(tc.pageNum, tc.pageSize)
		if limit != tc.wantLimit || offset != tc.wantOffset {
			t.Fatalf("Offset(%d, %d) = (%d, %d), want (%d, %d)",
				tc.pageNum, tc.pageSize, limit, offset, tc.wantLimit, tc.wantOffset)
		}
	}
}
