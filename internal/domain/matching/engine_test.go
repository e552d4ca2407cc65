package matching

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
)

var (
	goID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	pgID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func goReq(level int) Requirement {
	return Requirement{SkillID: goID, SkillName: "Go", Level: level}
}

func candidateWithGo(id string, level int) Candidate {
	c := Candidate{ID: id, Name: id, Email: id + "@example.com"}
	if level > 0 {
		c.Skills = []CandidateSkill{{SkillID: goID, Name: "Go", Level: level}}
	}
	return c
}

func TestScore_SingleRequirementRatios(t *testing.T) {
	cases := []struct {
		level    int
		required int
		want     float64
	}{
		{0, 4, 0},
		{1, 4, 0.25},
		{2, 4, 0.5},
		{4, 4, 1},
		{5, 4, 1},
		{3, 3, 1},
		{1, 5, 0.2},
	}
	for _, tc := range cases {
		m := Score(candidateWithGo("x", tc.level), []Requirement{goReq(tc.required)})
		if math.Abs(m.Score-tc.want) > 1e-9 {
			t.Fatalf("level=%d required=%d: got %v, want %v", tc.level, tc.required, m.Score, tc.want)
		}
		if m.Score < 0 || m.Score > 1 {
			t.Fatalf("score %v out of [0,1]", m.Score)
		}
	}
}

func TestScore_MonotonicInLevel(t *testing.T) {
	reqs := []Requirement{goReq(4)}
	prev := -1.0
	for level := 0; level <= 5; level++ {
		m := Score(candidateWithGo("x", level), reqs)
		if m.Score < prev {
			t.Fatalf("score decreased at level %d: %v < %v", level, m.Score, prev)
		}
		prev = m.Score
	}
}

func TestScore_MeanOverAllRequirements(t *testing.T) {
	reqs := []Requirement{goReq(4), {SkillID: pgID, SkillName: "PostgreSQL", Level: 3}}
	m := Score(candidateWithGo("x", 4), reqs)
	if math.Abs(m.Score-0.5) > 1e-9 {
		t.Fatalf("one of two requirements satisfied: got %v, want 0.5", m.Score)
	}
	if len(m.Details) != 2 {
		t.Fatalf("expected a detail per requirement, got %d", len(m.Details))
	}
	if m.Details[1].Score != 0 || m.Details[1].StudentLevel != 0 {
		t.Fatalf("missing skill should contribute a zero detail: %+v", m.Details[1])
	}
}

func TestScore_NameFallback(t *testing.T) {
	c := Candidate{ID: "x", Skills: []CandidateSkill{{Name: "  javascript ", Level: 4}}}
	reqs := []Requirement{{SkillID: uuid.New(), SkillName: "JavaScript", Level: 4}}

	m := Score(c, reqs)
	if m.Score != 1 {
		t.Fatalf("name fallback should match: got %v", m.Score)
	}
	if m.Details[0].MatchedSkillName != "  javascript " {
		t.Fatalf("substituted skill name not recorded: %q", m.Details[0].MatchedSkillName)
	}
}

func TestScore_ExactIDPreferredOverName(t *testing.T) {
	c := Candidate{ID: "x", Skills: []CandidateSkill{
		{SkillID: goID, Name: "Golang", Level: 2},
		{Name: "Go", Level: 5},
	}}
	m := Score(c, []Requirement{goReq(4)})
	if m.Details[0].StudentLevel != 2 {
		t.Fatalf("id match should win over name match, got level %d", m.Details[0].StudentLevel)
	}
	if m.Details[0].MatchedSkillName != "" {
		t.Fatalf("exact match should not record a substitution")
	}
}

func TestScore_NoFuzzyNameMatch(t *testing.T) {
	c := Candidate{ID: "x", Skills: []CandidateSkill{{Name: "JS", Level: 5}}}
	m := Score(c, []Requirement{{SkillID: uuid.New(), SkillName: "JavaScript", Level: 3}})
	if m.Score != 0 {
		t.Fatalf("abbreviations must not match: got %v", m.Score)
	}
}

func TestRun_RankingAndSelection(t *testing.T) {
	candidates := []Candidate{
		candidateWithGo("d", 0),
		candidateWithGo("b", 1),
		candidateWithGo("a", 5),
		candidateWithGo("c", 4),
	}

	team, err := Run(candidates, []Requirement{goReq(4)}, Bounds{Min: 2, Max: 5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(team.Members) != 3 {
		t.Fatalf("three positive candidates, expected team of 3, got %d", len(team.Members))
	}
	wantOrder := []string{"a", "c", "b"}
	for i, id := range wantOrder {
		if team.Members[i].CandidateID != id {
			t.Fatalf("rank %d: got %q, want %q", i, team.Members[i].CandidateID, id)
		}
	}
}

func TestRun_MaxBoundClampsTeam(t *testing.T) {
	candidates := []Candidate{
		candidateWithGo("a", 5),
		candidateWithGo("b", 4),
		candidateWithGo("c", 3),
	}
	team, err := Run(candidates, []Requirement{goReq(4)}, Bounds{Min: 1, Max: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(team.Members) != 2 {
		t.Fatalf("expected max bound to cap team at 2, got %d", len(team.Members))
	}
}

func TestRun_ZeroRequirements(t *testing.T) {
	candidates := []Candidate{
		candidateWithGo("c", 3),
		candidateWithGo("a", 5),
		candidateWithGo("b", 1),
	}
	team, err := Run(candidates, nil, Bounds{Min: 2, Max: 4})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(team.Members) != 2 {
		t.Fatalf("zero requirements: team should be the minimum size, got %d", len(team.Members))
	}
	if team.Members[0].CandidateID != "a" || team.Members[1].CandidateID != "b" {
		t.Fatalf("zero-score tie should rank by id: got %q, %q",
			team.Members[0].CandidateID, team.Members[1].CandidateID)
	}
}

func TestRun_BoundErrors(t *testing.T) {
	one := []Candidate{candidateWithGo("a", 5)}

	if _, err := Run(one, nil, Bounds{Min: 0, Max: 3}); err != ErrInvalidBounds {
		t.Fatalf("min<1: got %v", err)
	}
	if _, err := Run(one, nil, Bounds{Min: 3, Max: 2}); err != ErrInvalidBounds {
		t.Fatalf("max<min: got %v", err)
	}
	if _, err := Run(nil, nil, Bounds{Min: 1, Max: 3}); err != ErrEmptyCandidatePool {
		t.Fatalf("empty pool: got %v", err)
	}
	if _, err := Run(one, nil, Bounds{Min: 2, Max: 3}); err != ErrBoundsUnsatisfiable {
		t.Fatalf("pool smaller than min: got %v", err)
	}
}

func TestRun_DeterministicUnderParallelScoring(t *testing.T) {
	candidates := make([]Candidate, 0, 64)
	for i := 0; i < 64; i++ {
		candidates = append(candidates, candidateWithGo(fmt.Sprintf("s%02d", i), i%6))
	}
	reqs := []Requirement{goReq(4)}
	b := Bounds{Min: 3, Max: 20}

	first, err := Run(candidates, reqs, b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for run := 0; run < 10; run++ {
		team, err := Run(candidates, reqs, b)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(team.Members) != len(first.Members) {
			t.Fatalf("run %d: size changed", run)
		}
		for i := range team.Members {
			if team.Members[i].CandidateID != first.Members[i].CandidateID {
				t.Fatalf("run %d: rank %d differs", run, i)
			}
		}
	}
}
