package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"team-forge/internal/pkg/page"
	"team-forge/internal/repository"

	"github.com/google/uuid"
)

type TeamListParams struct {
	ProjectID *uuid.UUID
	// Ordering is "created_at" or "-created_at"; empty means newest first.
	Ordering string
	Limit    int
	Offset   int
}

type TeamUsecase interface {
	List(ctx context.Context, p TeamListParams) (page.Page[TeamItem], error)
	Get(ctx context.Context, id int64) (TeamItem, error)
	Delete(ctx context.Context, id int64) error
}

type Team struct {
	repo      repository.TeamRepository
	ioTimeout time.Duration
}

func NewTeamUsecase(repo repository.TeamRepository, ioTimeout time.Duration) *Team {
	return &Team{repo: repo, ioTimeout: ioTimeout}
}

func (u *Team) List(ctx context.Context, p TeamListParams) (page.Page[TeamItem], error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	switch p.Ordering {
	case "", "created_at", "-created_at":
	default:
		return page.Page[TeamItem]{}, fieldError("ordering", "must be created_at or -created_at")
	}

	limit := p.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}

	teams, count, err := u.repo.List(ctx, repository.TeamFilter{
		ProjectID: p.ProjectID,
		Ascending: p.Ordering == "created_at",
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return page.Page[TeamItem]{}, infraErr(err)
	}

	out := make([]TeamItem, 0, len(teams))
	for _, t := range teams {
		out = append(out, fromStoredTeam(t))
	}
	return page.New(out, count), nil
}

func (u *Team) Get(ctx context.Context, id int64) (TeamItem, error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	t, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return TeamItem{}, ErrTeamNotFound
		}
		return TeamItem{}, infraErr(err)
	}
	return fromStoredTeam(t), nil
}

// Delete is idempotent: removing a team that is already gone succeeds.
func (u *Team) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	if _, err := u.repo.Delete(ctx, id); err != nil {
		return infraErr(err)
	}
	return nil
}

func fromStoredTeam(t repository.Team) TeamItem {
	item := TeamItem{
		ID:        t.ID,
		ProjectID: t.ProjectID,
		Number:    t.Number,
		CreatedAt: t.CreatedAt,
		Students:  make([]TeamMemberItem, 0, len(t.Members)),
	}
	for _, m := range t.Members {
		var details []MatchDetailItem
		if len(m.Details) > 0 {
			_ = json.Unmarshal(m.Details, &details)
		}
		if details == nil {
			details = make([]MatchDetailItem, 0)
		}
		item.Students = append(item.Students, TeamMemberItem{
			ID:            m.StudentID,
			Name:          m.Name,
			Email:         m.Email,
			Score:         m.Score,
			MatchedSkills: details,
		})
	}
	return item
}
