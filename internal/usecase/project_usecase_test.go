package usecase

import (
	"context"
	"errors"
	"testing"

	"team-forge/internal/repository"

	"github.com/google/uuid"
)

func TestProjectUsecase_Create_Validation(t *testing.T) {
	uc := NewProjectUsecase(&mockProjectRepo{}, 0)

	_, err := uc.Create(context.Background(), ProjectInput{
		Title:           "  ",
		MinParticipants: 0,
		MaxParticipants: -1,
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	for _, field := range []string{"title", "min_participants", "max_participants"} {
		if _, ok := vErr.Fields[field]; !ok {
			t.Fatalf("expected %s flagged: %v", field, vErr.Fields)
		}
	}
}

func TestProjectUsecase_Create(t *testing.T) {
	uc := NewProjectUsecase(&mockProjectRepo{}, 0)

	created, err := uc.Create(context.Background(), ProjectInput{
		Title:           " Robotics lab ",
		MinParticipants: 2,
		MaxParticipants: 5,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created.Title != "Robotics lab" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}
}

func TestProjectUsecase_Create_TitleTaken(t *testing.T) {
	repo := &conflictingProjectRepo{}
	uc := NewProjectUsecase(repo, 0)

	_, err := uc.Create(context.Background(), ProjectInput{
		Title:           "Taken",
		MinParticipants: 1,
		MaxParticipants: 3,
	})
	if !errors.Is(err, ErrProjectTitleTaken) {
		t.Fatalf("expected ErrProjectTitleTaken, got %v", err)
	}
}

func TestProjectUsecase_Update_PartialPatchValidation(t *testing.T) {
	uc := NewProjectUsecase(&mockProjectRepo{}, 0)

	empty := ""
	_, err := uc.Update(context.Background(), uuid.New(), ProjectPatch{Title: &empty})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}

	low, high := 4, 2
	_, err = uc.Update(context.Background(), uuid.New(), ProjectPatch{
		MinParticipants: &low,
		MaxParticipants: &high,
	})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error for inverted bounds, got %v", err)
	}
}

func TestProjectUsecase_Get_NotFound(t *testing.T) {
	repo := &mockProjectRepo{findErr: repository.ErrProjectNotFound}
	uc := NewProjectUsecase(repo, 0)

	if _, err := uc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

type conflictingProjectRepo struct {
	mockProjectRepo
}

func (m *conflictingProjectRepo) Create(context.Context, repository.Project) (repository.Project, error) {
	return repository.Project{}, repository.ErrProjectTitleTaken
}
