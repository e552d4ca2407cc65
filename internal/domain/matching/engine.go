package matching

import (
	"errors"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrEmptyCandidatePool  = errors.New("candidate pool is empty")
	ErrBoundsUnsatisfiable = errors.New("not enough candidates for the minimum team size")
	ErrInvalidBounds       = errors.New("invalid participant bounds")
)

type CandidateSkill struct {
	SkillID uuid.UUID
	Name    string
	Level   int
}

// Candidate is one student considered by a run. ID is a uuid string for
// database students and the roster-supplied id for virtual ones.
type Candidate struct {
	ID     string
	Name   string
	Email  string
	Skills []CandidateSkill
}

type Requirement struct {
	SkillID   uuid.UUID
	SkillName string
	Level     int
}

// MatchDetail records how one requirement was satisfied by one member.
// MatchedSkillName is set only when a case-insensitive name fallback
// substituted for the exact skill id.
type MatchDetail struct {
	SkillID          uuid.UUID
	SkillName        string
	MatchedSkillName string
	StudentLevel     int
	RequiredLevel    int
	Score            float64
}

type Member struct {
	CandidateID string
	Name        string
	Email       string
	Score       float64
	Details     []MatchDetail
}

type Team struct {
	Members []Member
}

type Bounds struct {
	Min int
	Max int
}

// Run scores every candidate against every requirement, ranks them and
// selects a team within bounds.
//
// Aggregate score is the mean over ALL requirements; a requirement the
// candidate cannot satisfy contributes 0 to both numerator and denominator
// weight. Ranking is by aggregate descending, candidate id ascending.
// Team size is the number of candidates with a positive aggregate, clamped
// to [Min, Max]; with zero requirements every aggregate is 0 and the team
// is the first Min candidates by id.
func Run(candidates []Candidate, reqs []Requirement, b Bounds) (Team, error) {
	if b.Min < 1 || b.Max < b.Min {
		return Team{}, ErrInvalidBounds
	}
	if len(candidates) == 0 {
		return Team{}, ErrEmptyCandidatePool
	}
	if len(candidates) < b.Min {
		return Team{}, ErrBoundsUnsatisfiable
	}

	members := scoreAll(candidates, reqs)

	sort.Slice(members, func(i, j int) bool {
		if members[i].Score != members[j].Score {
			return members[i].Score > members[j].Score
		}
		return members[i].CandidateID < members[j].CandidateID
	})

	positive := 0
	for _, m := range members {
		if m.Score > 0 {
			positive++
		}
	}

	n := positive
	if n < b.Min {
		n = b.Min
	}
	if n > b.Max {
		n = b.Max
	}

	return Team{Members: members[:n]}, nil
}

// scoreAll fans per-candidate scoring out across GOMAXPROCS workers.
// Candidates are independent, so workers write disjoint slice slots.
func scoreAll(candidates []Candidate, reqs []Requirement) []Member {
	members := make([]Member, len(candidates))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range idx {
				members[i] = Score(candidates[i], reqs)
			}
		}()
	}
	for i := range candidates {
		idx <- i
	}
	close(idx)
	wg.Wait()

	return members
}

// Score evaluates a single candidate against the requirement set.
func Score(c Candidate, reqs []Requirement) Member {
	m := Member{
		CandidateID: c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Details:     make([]MatchDetail, 0, len(reqs)),
	}
	if len(reqs) == 0 {
		return m
	}

	byID := make(map[uuid.UUID]CandidateSkill, len(c.Skills))
	byName := make(map[string]CandidateSkill, len(c.Skills))
	for _, s := range c.Skills {
		if s.SkillID != uuid.Nil {
			byID[s.SkillID] = s
		}
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key != "" {
			if _, ok := byName[key]; !ok {
				byName[key] = s
			}
		}
	}

	var total float64
	for _, r := range reqs {
		d := MatchDetail{
			SkillID:       r.SkillID,
			SkillName:     r.SkillName,
			RequiredLevel: clampLevel(r.Level),
		}

		skill, exact := byID[r.SkillID]
		if !exact {
			if s, ok := byName[strings.ToLower(strings.TrimSpace(r.SkillName))]; ok {
				skill = s
				d.MatchedSkillName = s.Name
			} else {
				skill = CandidateSkill{}
			}
		}

		level := skill.Level
		if level < 0 {
			level = 0
		}
		if level > 5 {
			level = 5
		}
		d.StudentLevel = level

		if level > 0 && d.RequiredLevel > 0 {
			score := float64(level) / float64(d.RequiredLevel)
			if score > 1 {
				score = 1
			}
			d.Score = score
		}

		total += d.Score
		m.Details = append(m.Details, d)
	}

	m.Score = total / float64(len(reqs))
	return m
}

func clampLevel(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
