package usecase

import (
	"context"
	"errors"
	"testing"

	"team-forge/internal/repository"

	"github.com/google/uuid"
)

func TestTeamUsecase_List_RejectsUnknownOrdering(t *testing.T) {
	uc := NewTeamUsecase(&mockTeamRepo{}, 0)

	_, err := uc.List(context.Background(), TeamListParams{Ordering: "score"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if _, ok := vErr.Fields["ordering"]; !ok {
		t.Fatalf("expected the ordering field flagged: %v", vErr.Fields)
	}
}

func TestTeamUsecase_List(t *testing.T) {
	projectID := uuid.New()
	repo := &mockTeamRepo{teams: []repository.Team{
		{ID: 2, ProjectID: projectID, Number: 2},
		{ID: 1, ProjectID: projectID, Number: 1, Members: []repository.TeamMember{
			{StudentID: "s1", Name: "Ada", Score: 1, Details: []byte(`[{"skill_name":"Go","score":1}]`)},
		}},
	}}
	uc := NewTeamUsecase(repo, 0)

	result, err := uc.List(context.Background(), TeamListParams{ProjectID: &projectID})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Count != 2 || len(result.Results) != 2 {
		t.Fatalf("unexpected page: count=%d len=%d", result.Count, len(result.Results))
	}

	members := result.Results[1].Students
	if len(members) != 1 || members[0].ID != "s1" {
		t.Fatalf("member rows not mapped: %+v", members)
	}
	if len(members[0].MatchedSkills) != 1 || members[0].MatchedSkills[0].SkillName != "Go" {
		t.Fatalf("stored details not decoded: %+v", members[0].MatchedSkills)
	}
}

func TestTeamUsecase_Get_NotFound(t *testing.T) {
	uc := NewTeamUsecase(&mockTeamRepo{}, 0)
	if _, err := uc.Get(context.Background(), 99); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestTeamUsecase_Delete_Idempotent(t *testing.T) {
	repo := &mockTeamRepo{deletedOK: true}
	uc := NewTeamUsecase(repo, 0)

	if err := uc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	repo.deletedOK = false
	if err := uc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("deleting an already-deleted team must succeed: %v", err)
	}
	if len(repo.deleted) != 2 {
		t.Fatalf("expected 2 delete attempts, got %d", len(repo.deleted))
	}
}
