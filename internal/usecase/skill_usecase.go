package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"team-forge/internal/pkg/page"
	"team-forge/internal/repository"

	"github.com/google/uuid"
)

type SkillItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SkillHolderItem struct {
	StudentID uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Level     int       `json:"level"`
}

type SkillUsecase interface {
	Search(ctx context.Context, query string, pageNum, pageSize int) (page.Page[SkillItem], error)
	FindOrCreate(ctx context.Context, name string) (SkillItem, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (SkillItem, error)
	Holders(ctx context.Context, skillID uuid.UUID, pageNum, pageSize int) (page.Page[SkillHolderItem], error)
}

type Skill struct {
	repo      repository.SkillRepository
	cache     SearchCache
	cacheTTL  time.Duration
	ioTimeout time.Duration
}

func NewSkillUsecase(repo repository.SkillRepository, cache SearchCache, cacheTTL, ioTimeout time.Duration) *Skill {
	return &Skill{repo: repo, cache: cache, cacheTTL: cacheTTL, ioTimeout: ioTimeout}
}

func (u *Skill) Search(ctx context.Context, query string, pageNum, pageSize int) (page.Page[SkillItem], error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	query = strings.TrimSpace(query)
	limit, offset := page.Offset(pageNum, pageSize)

	key := fmt.Sprintf("skills:search:%s:%d:%d", strings.ToLower(query), limit, offset)
	if u.cache != nil {
		var cached page.Page[SkillItem]
		if ok, err := u.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	items, count, err := u.repo.Search(ctx, query, limit, offset)
	if err != nil {
		return page.Page[SkillItem]{}, infraErr(err)
	}

	out := make([]SkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, SkillItem{ID: it.ID, Name: it.Name})
	}
	result := page.New(out, count)

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, result, u.cacheTTL)
	}
	return result, nil
}

// FindOrCreate resolves a skill by case-insensitive name, creating it when
// absent. Losing a create race is recovered by one more lookup.
func (u *Skill) FindOrCreate(ctx context.Context, name string) (SkillItem, error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return SkillItem{}, fieldError("name", "must not be empty")
	}

	found, err := u.repo.FindByName(ctx, name)
	if err == nil {
		return SkillItem{ID: found.ID, Name: found.Name}, nil
	}
	if !errors.Is(err, repository.ErrSkillNotFound) {
		return SkillItem{}, infraErr(err)
	}

	created, err := u.repo.Create(ctx, name)
	if err == nil {
		u.invalidateSearch(ctx)
		return SkillItem{ID: created.ID, Name: created.Name}, nil
	}
	if !errors.Is(err, repository.ErrSkillExists) {
		return SkillItem{}, infraErr(err)
	}

	// Lost the race: another writer created the same name first.
	found, err = u.repo.FindByName(ctx, name)
	if err != nil {
		return SkillItem{}, infraErr(err)
	}
	return SkillItem{ID: found.ID, Name: found.Name}, nil
}

func (u *Skill) Rename(ctx context.Context, id uuid.UUID, name string) (SkillItem, error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return SkillItem{}, fieldError("name", "must not be empty")
	}

	updated, err := u.repo.Rename(ctx, id, name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSkillNotFound):
			return SkillItem{}, ErrSkillNotFound
		case errors.Is(err, repository.ErrSkillExists):
			return SkillItem{}, ErrSkillExists
		default:
			return SkillItem{}, infraErr(err)
		}
	}

	u.invalidateSearch(ctx)
	return SkillItem{ID: updated.ID, Name: updated.Name}, nil
}

func (u *Skill) Holders(ctx context.Context, skillID uuid.UUID, pageNum, pageSize int) (page.Page[SkillHolderItem], error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	if _, err := u.repo.FindByID(ctx, skillID); err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return page.Page[SkillHolderItem]{}, ErrSkillNotFound
		}
		return page.Page[SkillHolderItem]{}, infraErr(err)
	}

	limit, offset := page.Offset(pageNum, pageSize)
	holders, count, err := u.repo.Holders(ctx, skillID, limit, offset)
	if err != nil {
		return page.Page[SkillHolderItem]{}, infraErr(err)
	}

	out := make([]SkillHolderItem, 0, len(holders))
	for _, h := range holders {
		out = append(out, SkillHolderItem{StudentID: h.StudentID, Name: h.Name, Email: h.Email, Level: h.Level})
	}
	return page.New(out, count), nil
}

func (u *Skill) invalidateSearch(ctx context.Context) {
	if u.cache == nil {
		return
	}
	_ = u.cache.DeleteByPattern(ctx, "skills:search:*")
}

func withIOTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
