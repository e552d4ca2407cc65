package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"team-forge/internal/domain/matching"
	"team-forge/internal/domain/roster"
	"team-forge/internal/repository"

	"github.com/google/uuid"
)

// Matcher policy failures are non-fatal: they become a structured
// "no team formed" response, and nothing is persisted.
var (
	ErrEmptyCandidatePool  = matching.ErrEmptyCandidatePool
	ErrBoundsUnsatisfiable = matching.ErrBoundsUnsatisfiable
	ErrMalformedRoster     = roster.ErrMalformed
)

type MatchDetailItem struct {
	SkillID          uuid.UUID `json:"skill_id"`
	SkillName        string    `json:"skill_name"`
	MatchedSkillName string    `json:"matched_skill_name,omitempty"`
	StudentLevel     int       `json:"student_level"`
	RequiredLevel    int       `json:"required_level"`
	Score            float64   `json:"score"`
}

type TeamMemberItem struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Score         float64           `json:"score"`
	MatchedSkills []MatchDetailItem `json:"matched_skills"`
}

type TeamItem struct {
	ID        int64            `json:"id"`
	ProjectID uuid.UUID        `json:"project"`
	Number    int              `json:"number"`
	CreatedAt time.Time        `json:"created_at"`
	Students  []TeamMemberItem `json:"students"`
}

// TeamNotifier announces a persisted team to interested listeners.
type TeamNotifier interface {
	TeamFormed(projectID uuid.UUID, teamID int64, size int)
}

type MatchingUsecase interface {
	MatchFromDatabase(ctx context.Context, projectID uuid.UUID) (TeamItem, error)
	MatchFromRoster(ctx context.Context, projectID uuid.UUID, body []byte) (TeamItem, error)
}

type Matching struct {
	projects     repository.ProjectRepository
	requirements repository.RequirementRepository
	users        repository.UserRepository
	teams        repository.TeamRepository
	notifier     TeamNotifier
	ioTimeout    time.Duration
}

func NewMatchingUsecase(
	projects repository.ProjectRepository,
	requirements repository.RequirementRepository,
	users repository.UserRepository,
	teams repository.TeamRepository,
	notifier TeamNotifier,
	ioTimeout time.Duration,
) *Matching {
	return &Matching{
		projects:     projects,
		requirements: requirements,
		users:        users,
		teams:        teams,
		notifier:     notifier,
		ioTimeout:    ioTimeout,
	}
}

// MatchFromDatabase runs the matcher against every student in the database.
func (u *Matching) MatchFromDatabase(ctx context.Context, projectID uuid.UUID) (TeamItem, error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	profiles, err := u.users.StudentProfiles(ctx)
	if err != nil {
		return TeamItem{}, infraErr(err)
	}

	pool := make([]matching.Candidate, 0, len(profiles))
	for _, p := range profiles {
		c := matching.Candidate{ID: p.ID.String(), Name: p.Name, Email: p.Email}
		for _, s := range p.Skills {
			c.Skills = append(c.Skills, matching.CandidateSkill{SkillID: s.SkillID, Name: s.SkillName, Level: s.Level})
		}
		pool = append(pool, c)
	}

	return u.run(ctx, projectID, pool)
}

// MatchFromRoster runs the matcher against an uploaded JSON roster of
// virtual students instead of the database.
func (u *Matching) MatchFromRoster(ctx context.Context, projectID uuid.UUID, body []byte) (TeamItem, error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	pool, err := roster.Parse(body)
	if err != nil {
		if errors.Is(err, roster.ErrEmpty) {
			return TeamItem{}, ErrEmptyCandidatePool
		}
		return TeamItem{}, err
	}

	return u.run(ctx, projectID, pool)
}

func (u *Matching) run(ctx context.Context, projectID uuid.UUID, pool []matching.Candidate) (TeamItem, error) {
	project, err := u.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return TeamItem{}, ErrProjectNotFound
		}
		return TeamItem{}, infraErr(err)
	}

	reqs, err := u.requirements.ListByProject(ctx, projectID)
	if err != nil {
		return TeamItem{}, infraErr(err)
	}

	engineReqs := make([]matching.Requirement, 0, len(reqs))
	for _, r := range reqs {
		engineReqs = append(engineReqs, matching.Requirement{SkillID: r.SkillID, SkillName: r.SkillName, Level: r.Level})
	}

	team, err := matching.Run(pool, engineReqs, matching.Bounds{
		Min: project.MinParticipants,
		Max: project.MaxParticipants,
	})
	if err != nil {
		// Policy failures pass through untouched; nothing was written.
		return TeamItem{}, err
	}

	members, err := toRepoMembers(team.Members)
	if err != nil {
		return TeamItem{}, ErrInternal
	}

	persisted, err := u.teams.Create(ctx, projectID, members)
	if errors.Is(err, repository.ErrProjectGone) {
		// The project vanished between scoring and the write; one
		// transparent retry before surfacing the conflict.
		persisted, err = u.teams.Create(ctx, projectID, members)
		if errors.Is(err, repository.ErrProjectGone) {
			return TeamItem{}, ErrConcurrentModification
		}
	}
	if err != nil {
		return TeamItem{}, infraErr(err)
	}

	if u.notifier != nil {
		u.notifier.TeamFormed(projectID, persisted.ID, len(team.Members))
	}

	return toTeamItem(persisted, team.Members), nil
}

func toRepoMembers(members []matching.Member) ([]repository.TeamMember, error) {
	out := make([]repository.TeamMember, 0, len(members))
	for i, m := range members {
		details, err := json.Marshal(toDetailItems(m.Details))
		if err != nil {
			return nil, err
		}
		out = append(out, repository.TeamMember{
			Position:  i,
			StudentID: m.CandidateID,
			Name:      m.Name,
			Email:     m.Email,
			Score:     m.Score,
			Details:   details,
		})
	}
	return out, nil
}

func toDetailItems(details []matching.MatchDetail) []MatchDetailItem {
	out := make([]MatchDetailItem, 0, len(details))
	for _, d := range details {
		out = append(out, MatchDetailItem{
			SkillID:          d.SkillID,
			SkillName:        d.SkillName,
			MatchedSkillName: d.MatchedSkillName,
			StudentLevel:     d.StudentLevel,
			RequiredLevel:    d.RequiredLevel,
			Score:            d.Score,
		})
	}
	return out
}

func toTeamItem(t repository.Team, members []matching.Member) TeamItem {
	item := TeamItem{
		ID:        t.ID,
		ProjectID: t.ProjectID,
		Number:    t.Number,
		CreatedAt: t.CreatedAt,
		Students:  make([]TeamMemberItem, 0, len(members)),
	}
	for _, m := range members {
		item.Students = append(item.Students, TeamMemberItem{
			ID:            m.CandidateID,
			Name:          m.Name,
			Email:         m.Email,
			Score:         m.Score,
			MatchedSkills: toDetailItems(m.Details),
		})
	}
	return item
}
