package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"team-forge/internal/repository"

	"github.com/google/uuid"
)

type RequirementItem struct {
	ID        uuid.UUID `json:"id"`
	SkillID   uuid.UUID `json:"skill"`
	SkillName string    `json:"skill_name"`
	Level     int       `json:"level"`
}

type RequirementInput struct {
	SkillID uuid.UUID
	Level   int
}

type RequirementUsecase interface {
	Add(ctx context.Context, projectID, skillID uuid.UUID, level int) error
	Remove(ctx context.Context, projectID, skillID uuid.UUID) error
	Sync(ctx context.Context, projectID uuid.UUID, items []RequirementInput) error
	List(ctx context.Context, projectID uuid.UUID) ([]RequirementItem, error)
}

type Requirement struct {
	repo      repository.RequirementRepository
	projects  repository.ProjectRepository
	ioTimeout time.Duration
}

func NewRequirementUsecase(repo repository.RequirementRepository, projects repository.ProjectRepository, ioTimeout time.Duration) *Requirement {
	return &Requirement{repo: repo, projects: projects, ioTimeout: ioTimeout}
}

// Add upserts one requirement. Levels outside 1..5 are clamped rather than
// rejected, matching how single-row edits behave in the admin UI.
func (u *Requirement) Add(ctx context.Context, projectID, skillID uuid.UUID, level int) error {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	if skillID == uuid.Nil {
		return fieldError("skill", "must not be empty")
	}
	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}

	if err := u.ensureProject(ctx, projectID); err != nil {
		return err
	}

	if err := u.repo.Upsert(ctx, projectID, skillID, level); err != nil {
		switch {
		case errors.Is(err, repository.ErrProjectNotFound):
			return ErrProjectNotFound
		case errors.Is(err, repository.ErrSkillNotFound):
			return ErrSkillNotFound
		default:
			return infraErr(err)
		}
	}
	return nil
}

// Remove deletes one requirement; removing an absent one is a no-op.
func (u *Requirement) Remove(ctx context.Context, projectID, skillID uuid.UUID) error {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	if skillID == uuid.Nil {
		return fieldError("skill_id", "must not be empty")
	}
	if err := u.ensureProject(ctx, projectID); err != nil {
		return err
	}

	if _, err := u.repo.Delete(ctx, projectID, skillID); err != nil {
		return infraErr(err)
	}
	return nil
}

// Sync atomically replaces the project's requirement set with the given
// list. Duplicates in the submitted list are a validation error, never
// last-write-wins.
func (u *Requirement) Sync(ctx context.Context, projectID uuid.UUID, items []RequirementInput) error {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	fields := map[string]string{}
	seen := make(map[uuid.UUID]struct{}, len(items))
	repoItems := make([]repository.RequirementInput, 0, len(items))
	for i, it := range items {
		key := fmt.Sprintf("requirements[%d]", i)
		if it.SkillID == uuid.Nil {
			fields[key+".skill"] = "must not be empty"
			continue
		}
		if it.Level < 1 || it.Level > 5 {
			fields[key+".level"] = "must be between 1 and 5"
			continue
		}
		if _, dup := seen[it.SkillID]; dup {
			fields[key+".skill"] = "duplicate skill in request"
			continue
		}
		seen[it.SkillID] = struct{}{}
		repoItems = append(repoItems, repository.RequirementInput{SkillID: it.SkillID, Level: it.Level})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if err := u.repo.Replace(ctx, projectID, repoItems); err != nil {
		switch {
		case errors.Is(err, repository.ErrProjectNotFound):
			return ErrProjectNotFound
		case errors.Is(err, repository.ErrSkillNotFound):
			return ErrSkillNotFound
		default:
			return infraErr(err)
		}
	}
	return nil
}

func (u *Requirement) List(ctx context.Context, projectID uuid.UUID) ([]RequirementItem, error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	if err := u.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	items, err := u.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, infraErr(err)
	}

	out := make([]RequirementItem, 0, len(items))
	for _, it := range items {
		out = append(out, RequirementItem{ID: it.ID, SkillID: it.SkillID, SkillName: it.SkillName, Level: it.Level})
	}
	return out, nil
}

func (u *Requirement) ensureProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := u.projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return ErrProjectNotFound
		}
		return infraErr(err)
	}
	return nil
}
