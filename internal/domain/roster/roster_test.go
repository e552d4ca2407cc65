package roster

import (
	"errors"
	"math"
	"testing"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		raw  float64
		want int
	}{
		{math.NaN(), 0},
		{-1, 0},
		{0, 0},
		{0.05, 1},
		{0.2, 1},
		{0.5, 3},
		{0.8, 4},
		{1, 5},
		{2, 2},
		{4.6, 5},
		{5, 5},
		{9, 5},
	}
	for _, tc := range cases {
		if got := Level(tc.raw); got != tc.want {
			t.Fatalf("Level(%v) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParse_Envelope(t *testing.T) {
	data := []byte(`{"students": [
		{"id": "s1", "name": "Ada", "email": "ada@example.com", "skills": {"Go": 0.8, "SQL": 0}},
		{"id": 42, "name": "Ben", "skills": {"Go": 3}}
	]}`)

	candidates, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	ada := candidates[0]
	if ada.ID != "s1" || ada.Name != "Ada" || ada.Email != "ada@example.com" {
		t.Fatalf("unexpected candidate: %+v", ada)
	}
	if len(ada.Skills) != 1 {
		t.Fatalf("zero-level skill should be dropped, got %d skills", len(ada.Skills))
	}
	if ada.Skills[0].Name != "Go" || ada.Skills[0].Level != 4 {
		t.Fatalf("fractional level not normalized: %+v", ada.Skills[0])
	}

	if candidates[1].ID != "42" {
		t.Fatalf("numeric id should coerce to a string, got %q", candidates[1].ID)
	}
	if candidates[1].Skills[0].Level != 3 {
		t.Fatalf("integer level should pass through, got %d", candidates[1].Skills[0].Level)
	}
}

func TestParse_BareArrayAndSkillList(t *testing.T) {
	data := []byte(`[
		{"id": "s1", "name": "Ada", "skills": [
			{"skill_id": "11111111-1111-1111-1111-111111111111", "name": "Go", "level": 4},
			{"name": "SQL", "level": 0.4}
		]}
	]`)

	candidates, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	skills := candidates[0].Skills
	if len(skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(skills))
	}
	if skills[0].SkillID.String() != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("skill_id not parsed: %v", skills[0].SkillID)
	}
	if skills[1].Level != 2 {
		t.Fatalf("fractional list level not normalized: %d", skills[1].Level)
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":     `{`,
		"missing id":   `[{"name": "Ada"}]`,
		"blank id":     `[{"id": "  "}]`,
		"duplicate id": `[{"id": "s1"}, {"id": "s1"}]`,
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	for _, data := range []string{`[]`, `{"students": []}`} {
		if _, err := Parse([]byte(data)); !errors.Is(err, ErrEmpty) {
			t.Fatalf("%q: expected ErrEmpty, got %v", data, err)
		}
	}
}
