package usecase

import (
	"context"
	"errors"
	"testing"

	"team-forge/internal/repository"

	"github.com/google/uuid"
)

func TestUserUsecase_List_RejectsUnknownRole(t *testing.T) {
	uc := NewUserUsecase(&mockUserRepo{}, NewSkillUsecase(&mockSkillRepo{}, nil, 0, 0), 0)

	_, err := uc.List(context.Background(), "admin", "", 1, 20)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestUserUsecase_ImportSkills(t *testing.T) {
	users := &mockUserRepo{}
	skills := &mockSkillRepo{}
	uc := NewUserUsecase(users, NewSkillUsecase(skills, nil, 0, 0), 0)

	student := uuid.New()
	count, err := uc.ImportSkills(context.Background(), []ImportStudent{{
		ID: student,
		Skills: map[string]float64{
			"Go":     0.8,
			"SQL":    3,
			"Erased": 0,
		},
	}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if count != 2 {
		t.Fatalf("zero-level entries must be skipped, imported %d", count)
	}
	if len(users.replaced) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(users.replaced))
	}
	if skills.creates != 2 {
		t.Fatalf("both skills should be created by name, got %d creates", skills.creates)
	}
	for _, up := range users.replaced {
		if up.StudentID != student {
			t.Fatalf("wrong student: %+v", up)
		}
		if up.Level != 4 && up.Level != 3 {
			t.Fatalf("level not normalized: %+v", up)
		}
	}
}

func TestUserUsecase_ImportSkills_Validation(t *testing.T) {
	uc := NewUserUsecase(&mockUserRepo{}, NewSkillUsecase(&mockSkillRepo{}, nil, 0, 0), 0)

	var vErr *ValidationError
	if _, err := uc.ImportSkills(context.Background(), nil); !errors.As(err, &vErr) {
		t.Fatalf("empty import: expected a validation error, got %v", err)
	}
	if _, err := uc.ImportSkills(context.Background(), []ImportStudent{{}}); !errors.As(err, &vErr) {
		t.Fatalf("nil id: expected a validation error, got %v", err)
	}
}

func TestUserUsecase_ImportSkills_UnknownStudent(t *testing.T) {
	users := &failingUserRepo{err: repository.ErrUserNotFound}
	uc := NewUserUsecase(users, NewSkillUsecase(&mockSkillRepo{}, nil, 0, 0), 0)

	_, err := uc.ImportSkills(context.Background(), []ImportStudent{{
		ID:     uuid.New(),
		Skills: map[string]float64{"Go": 3},
	}})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

type failingUserRepo struct {
	mockUserRepo
	err error
}

func (m *failingUserRepo) ReplaceStudentSkills(context.Context, []repository.StudentSkillUpsert) error {
	return m.err
}
