package usecase

import (
	"context"
	"errors"
	"testing"

	"team-forge/internal/repository"

	"github.com/google/uuid"
)

type mockProjectRepo struct {
	project repository.Project
	findErr error
}

func (m *mockProjectRepo) Create(_ context.Context, p repository.Project) (repository.Project, error) {
	return p, nil
}
func (m *mockProjectRepo) FindByID(context.Context, uuid.UUID) (repository.Project, error) {
	return m.project, m.findErr
}
func (m *mockProjectRepo) List(context.Context, string, int, int) ([]repository.Project, int, error) {
	return nil, 0, nil
}
func (m *mockProjectRepo) Update(_ context.Context, _ uuid.UUID, _ repository.ProjectUpdate) (repository.Project, error) {
	return m.project, nil
}
func (m *mockProjectRepo) Delete(context.Context, uuid.UUID) error { return nil }

type mockRequirementRepo struct {
	items []repository.Requirement

	upserted []repository.RequirementInput
	replaced []repository.RequirementInput
	deleted  []uuid.UUID

	replaceErr error
}

func (m *mockRequirementRepo) Upsert(_ context.Context, _ uuid.UUID, skillID uuid.UUID, level int) error {
	m.upserted = append(m.upserted, repository.RequirementInput{SkillID: skillID, Level: level})
	return nil
}
func (m *mockRequirementRepo) Delete(_ context.Context, _ uuid.UUID, skillID uuid.UUID) (bool, error) {
	m.deleted = append(m.deleted, skillID)
	return false, nil
}
func (m *mockRequirementRepo) ListByProject(context.Context, uuid.UUID) ([]repository.Requirement, error) {
	return m.items, nil
}
func (m *mockRequirementRepo) Replace(_ context.Context, _ uuid.UUID, items []repository.RequirementInput) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = items
	return nil
}

func TestRequirementUsecase_Add_ClampsLevel(t *testing.T) {
	repo := &mockRequirementRepo{}
	uc := NewRequirementUsecase(repo, &mockProjectRepo{}, 0)

	skillID := uuid.New()
	if err := uc.Add(context.Background(), uuid.New(), skillID, 9); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := uc.Add(context.Background(), uuid.New(), skillID, -3); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(repo.upserted) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(repo.upserted))
	}
	if repo.upserted[0].Level != 5 || repo.upserted[1].Level != 1 {
		t.Fatalf("levels not clamped: %+v", repo.upserted)
	}
}

func TestRequirementUsecase_Add_NilSkill(t *testing.T) {
	uc := NewRequirementUsecase(&mockRequirementRepo{}, &mockProjectRepo{}, 0)

	err := uc.Add(context.Background(), uuid.New(), uuid.Nil, 3)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if _, ok := vErr.Fields["skill"]; !ok {
		t.Fatalf("expected the skill field flagged: %v", vErr.Fields)
	}
}

func TestRequirementUsecase_Add_ProjectMissing(t *testing.T) {
	projects := &mockProjectRepo{findErr: repository.ErrProjectNotFound}
	uc := NewRequirementUsecase(&mockRequirementRepo{}, projects, 0)

	if err := uc.Add(context.Background(), uuid.New(), uuid.New(), 3); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestRequirementUsecase_Remove_AbsentIsNoop(t *testing.T) {
	repo := &mockRequirementRepo{}
	uc := NewRequirementUsecase(repo, &mockProjectRepo{}, 0)

	if err := uc.Remove(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("removing an absent requirement must succeed: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("expected the delete to be attempted")
	}
}

func TestRequirementUsecase_Sync_RejectsDuplicates(t *testing.T) {
	repo := &mockRequirementRepo{}
	uc := NewRequirementUsecase(repo, &mockProjectRepo{}, 0)

	dup := uuid.New()
	err := uc.Sync(context.Background(), uuid.New(), []RequirementInput{
		{SkillID: dup, Level: 3},
		{SkillID: dup, Level: 4},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if _, ok := vErr.Fields["requirements[1].skill"]; !ok {
		t.Fatalf("expected the duplicate entry flagged: %v", vErr.Fields)
	}
	if repo.replaced != nil {
		t.Fatal("nothing must be written on validation failure")
	}
}

func TestRequirementUsecase_Sync_RejectsBadLevels(t *testing.T) {
	uc := NewRequirementUsecase(&mockRequirementRepo{}, &mockProjectRepo{}, 0)

	err := uc.Sync(context.Background(), uuid.New(), []RequirementInput{
		{SkillID: uuid.New(), Level: 0},
		{SkillID: uuid.New(), Level: 6},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if len(vErr.Fields) != 2 {
		t.Fatalf("expected both levels flagged: %v", vErr.Fields)
	}
}

func TestRequirementUsecase_Sync_ReplacesSet(t *testing.T) {
	repo := &mockRequirementRepo{}
	uc := NewRequirementUsecase(repo, &mockProjectRepo{}, 0)

	a, b := uuid.New(), uuid.New()
	items := []RequirementInput{{SkillID: a, Level: 4}, {SkillID: b, Level: 2}}

	if err := uc.Sync(context.Background(), uuid.New(), items); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.replaced) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(repo.replaced))
	}

	// Submitting the same set again lands the same rows.
	if err := uc.Sync(context.Background(), uuid.New(), items); err != nil {
		t.Fatalf("unexpected err on resubmission: %v", err)
	}
	if len(repo.replaced) != 2 || repo.replaced[0].SkillID != a || repo.replaced[1].SkillID != b {
		t.Fatalf("resubmission changed the set: %+v", repo.replaced)
	}
}

func TestRequirementUsecase_Sync_UnknownSkill(t *testing.T) {
	repo := &mockRequirementRepo{replaceErr: repository.ErrSkillNotFound}
	uc := NewRequirementUsecase(repo, &mockProjectRepo{}, 0)

	err := uc.Sync(context.Background(), uuid.New(), []RequirementInput{{SkillID: uuid.New(), Level: 3}})
	if !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
}
