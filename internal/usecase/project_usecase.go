package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"team-forge/internal/pkg/page"
	"team-forge/internal/repository"

	"github.com/google/uuid"
)

type ProjectItem struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CuratorID       *uuid.UUID `json:"curator"`
	CuratorName     string     `json:"curator_name"`
	MinParticipants int        `json:"min_participants"`
	MaxParticipants int        `json:"max_participants"`
	CreatedAt       time.Time  `json:"created_at"`
}

type ProjectInput struct {
	Title           string
	Description     string
	CuratorID       *uuid.UUID
	MinParticipants int
	MaxParticipants int
}

type ProjectPatch struct {
	Title           *string
	Description     *string
	CuratorID       *uuid.UUID
	MinParticipants *int
	MaxParticipants *int
}

type ProjectUsecase interface {
	Create(ctx context.Context, in ProjectInput) (ProjectItem, error)
	Get(ctx context.Context, id uuid.UUID) (ProjectItem, error)
	List(ctx context.Context, query string, pageNum, pageSize int) (page.Page[ProjectItem], error)
	Update(ctx context.Context, id uuid.UUID, patch ProjectPatch) (ProjectItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Project struct {
	repo      repository.ProjectRepository
	ioTimeout time.Duration
}

func NewProjectUsecase(repo repository.ProjectRepository, ioTimeout time.Duration) *Project {
	return &Project{repo: repo, ioTimeout: ioTimeout}
}

func (u *Project) Create(ctx context.Context, in ProjectInput) (ProjectItem, error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	fields := map[string]string{}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		fields["title"] = "must not be empty"
	}
	if in.MinParticipants < 1 {
		fields["min_participants"] = "must be at least 1"
	}
	if in.MaxParticipants < in.MinParticipants {
		fields["max_participants"] = "must be greater than or equal to min_participants"
	}
	if len(fields) > 0 {
		return ProjectItem{}, &ValidationError{Fields: fields}
	}

	created, err := u.repo.Create(ctx, repository.Project{
		Title:           in.Title,
		Description:     in.Description,
		CuratorID:       in.CuratorID,
		MinParticipants: in.MinParticipants,
		MaxParticipants: in.MaxParticipants,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProjectTitleTaken):
			return ProjectItem{}, ErrProjectTitleTaken
		case errors.Is(err, repository.ErrUserNotFound):
			return ProjectItem{}, fieldError("curator", "no such user")
		default:
			return ProjectItem{}, infraErr(err)
		}
	}
	return fromStoredProject(created), nil
}

func (u *Project) Get(ctx context.Context, id uuid.UUID) (ProjectItem, error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	p, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return ProjectItem{}, ErrProjectNotFound
		}
		return ProjectItem{}, infraErr(err)
	}
	return fromStoredProject(p), nil
}

func (u *Project) List(ctx context.Context, query string, pageNum, pageSize int) (page.Page[ProjectItem], error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	limit, offset := page.Offset(pageNum, pageSize)
	items, count, err := u.repo.List(ctx, strings.TrimSpace(query), limit, offset)
	if err != nil {
		return page.Page[ProjectItem]{}, infraErr(err)
	}

	out := make([]ProjectItem, 0, len(items))
	for _, p := range items {
		out = append(out, fromStoredProject(p))
	}
	return page.New(out, count), nil
}

func (u *Project) Update(ctx context.Context, id uuid.UUID, patch ProjectPatch) (ProjectItem, error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	fields := map[string]string{}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			fields["title"] = "must not be empty"
		}
		patch.Title = &t
	}
	if patch.MinParticipants != nil && *patch.MinParticipants < 1 {
		fields["min_participants"] = "must be at least 1"
	}
	if patch.MinParticipants != nil && patch.MaxParticipants != nil && *patch.MaxParticipants < *patch.MinParticipants {
		fields["max_participants"] = "must be greater than or equal to min_participants"
	}
	if len(fields) > 0 {
		return ProjectItem{}, &ValidationError{Fields: fields}
	}

	updated, err := u.repo.Update(ctx, id, repository.ProjectUpdate{
		Title:           patch.Title,
		Description:     patch.Description,
		CuratorID:       patch.CuratorID,
		MinParticipants: patch.MinParticipants,
		MaxParticipants: patch.MaxParticipants,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProjectNotFound):
			return ProjectItem{}, ErrProjectNotFound
		case errors.Is(err, repository.ErrProjectTitleTaken):
			return ProjectItem{}, ErrProjectTitleTaken
		case errors.Is(err, repository.ErrInvalidBounds):
			return ProjectItem{}, fieldError("max_participants", "must be greater than or equal to min_participants")
		default:
			return ProjectItem{}, infraErr(err)
		}
	}
	return fromStoredProject(updated), nil
}

func (u *Project) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return ErrProjectNotFound
		}
		return infraErr(err)
	}
	return nil
}

func fromStoredProject(p repository.Project) ProjectItem {
	return ProjectItem{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		CuratorID:       p.CuratorID,
		CuratorName:     p.CuratorName,
		MinParticipants: p.MinParticipants,
		MaxParticipants: p.MaxParticipants,
		CreatedAt:       p.CreatedAt,
	}
}
