package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"team-forge/internal/domain/matching"

	"github.com/google/uuid"
)

var (
	ErrMalformed = errors.New("malformed roster")
	ErrEmpty     = errors.New("roster contains no students")
)

// Level normalizes a raw proficiency value to the stored 1..5 scale.
// Fractional values in (0, 1] are legacy 0-1 levels and map onto 1..5;
// zero, negative and NaN values mean the skill is absent.
func Level(raw float64) int {
	if math.IsNaN(raw) || raw <= 0 {
		return 0
	}
	if raw <= 1 {
		v := int(math.Round(raw * 5))
		if v < 1 {
			v = 1
		}
		return v
	}
	v := int(math.Round(raw))
	if v > 5 {
		v = 5
	}
	return v
}

// Parse decodes an uploaded JSON roster into matcher candidates. Both
// {"students": [...]} and a bare student array are accepted. Skills may be
// a {"Name": level} map or a list of {skill_id, name, level} objects.
func Parse(data []byte) ([]matching.Candidate, error) {
	var env struct {
		Students []student `json:"students"`
	}
	var students []student
	if err := json.Unmarshal(data, &env); err == nil && env.Students != nil {
		students = env.Students
	} else {
		if err := json.Unmarshal(data, &students); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if len(students) == 0 {
		return nil, ErrEmpty
	}

	out := make([]matching.Candidate, 0, len(students))
	seen := make(map[string]struct{}, len(students))
	for i, s := range students {
		id := strings.TrimSpace(string(s.ID))
		if id == "" {
			return nil, fmt.Errorf("%w: student %d has no id", ErrMalformed, i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate student id %q", ErrMalformed, id)
		}
		seen[id] = struct{}{}

		out = append(out, matching.Candidate{
			ID:     id,
			Name:   s.Name,
			Email:  s.Email,
			Skills: s.Skills,
		})
	}
	return out, nil
}

type student struct {
	ID     flexID   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Skills skillSet `json:"skills"`
}

// flexID accepts both numeric and string ids, since roster files come from
// spreadsheets and hand-written JSON alike.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexID(n.String())
		return nil
	}
	return fmt.Errorf("id must be a string or a number, got %s", string(data))
}

type skillSet []matching.CandidateSkill

func (ss *skillSet) UnmarshalJSON(data []byte) error {
	var byName map[string]float64
	if err := json.Unmarshal(data, &byName); err == nil {
		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Strings(names)

		out := make([]matching.CandidateSkill, 0, len(names))
		for _, name := range names {
			lvl := Level(byName[name])
			if lvl == 0 {
				continue
			}
			out = append(out, matching.CandidateSkill{Name: name, Level: lvl})
		}
		*ss = out
		return nil
	}

	var listed []struct {
		SkillID string  `json:"skill_id"`
		Name    string  `json:"name"`
		Level   float64 `json:"level"`
	}
	if err := json.Unmarshal(data, &listed); err != nil {
		return fmt.Errorf("skills must be a name-level map or a list: %v", err)
	}

	out := make([]matching.CandidateSkill, 0, len(listed))
	for _, it := range listed {
		lvl := Level(it.Level)
		if lvl == 0 {
			continue
		}
		cs := matching.CandidateSkill{Name: it.Name, Level: lvl}
		if id, err := uuid.Parse(strings.TrimSpace(it.SkillID)); err == nil {
			cs.SkillID = id
		}
		out = append(out, cs)
	}
	*ss = out
	return nil
}
