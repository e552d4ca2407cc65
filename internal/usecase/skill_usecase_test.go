package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"team-forge/internal/repository"

	"github.com/google/uuid"
)

type mockSkillRepo struct {
	byName map[string]repository.Skill
	skills []repository.Skill

	createErr error
	creates   int
	searches  int
}

func (m *mockSkillRepo) FindByName(_ context.Context, name string) (repository.Skill, error) {
	if s, ok := m.byName[strings.ToLower(name)]; ok {
		return s, nil
	}
	return repository.Skill{}, repository.ErrSkillNotFound
}
func (m *mockSkillRepo) FindByID(_ context.Context, id uuid.UUID) (repository.Skill, error) {
	for _, s := range m.skills {
		if s.ID == id {
			return s, nil
		}
	}
	return repository.Skill{}, repository.ErrSkillNotFound
}
func (m *mockSkillRepo) Create(_ context.Context, name string) (repository.Skill, error) {
	m.creates++
	if m.createErr != nil {
		return repository.Skill{}, m.createErr
	}
	s := repository.Skill{ID: uuid.New(), Name: name}
	if m.byName == nil {
		m.byName = map[string]repository.Skill{}
	}
	m.byName[strings.ToLower(name)] = s
	return s, nil
}
func (m *mockSkillRepo) Rename(_ context.Context, id uuid.UUID, name string) (repository.Skill, error) {
	return repository.Skill{ID: id, Name: name}, nil
}
func (m *mockSkillRepo) Search(_ context.Context, _ string, _, _ int) ([]repository.Skill, int, error) {
	m.searches++
	return m.skills, len(m.skills), nil
}
func (m *mockSkillRepo) Holders(context.Context, uuid.UUID, int, int) ([]repository.SkillHolder, int, error) {
	return nil, 0, nil
}

type mockSearchCache struct {
	store   map[string][]byte
	deletes int
}

func newMockSearchCache() *mockSearchCache {
	return &mockSearchCache{store: map[string][]byte{}}
}

func (m *mockSearchCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	raw, ok := m.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}
func (m *mockSearchCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	return nil
}
func (m *mockSearchCache) DeleteByPattern(context.Context, string) error {
	m.deletes++
	m.store = map[string][]byte{}
	return nil
}

func TestSkillUsecase_FindOrCreate_CaseInsensitive(t *testing.T) {
	existing := repository.Skill{ID: uuid.New(), Name: "Go"}
	repo := &mockSkillRepo{byName: map[string]repository.Skill{"go": existing}}
	uc := NewSkillUsecase(repo, nil, 0, 0)

	found, err := uc.FindOrCreate(context.Background(), "  gO ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if found.ID != existing.ID || found.Name != "Go" {
		t.Fatalf("expected the canonical row back, got %+v", found)
	}
	if repo.creates != 0 {
		t.Fatal("existing skill must not be recreated")
	}
}

func TestSkillUsecase_FindOrCreate_EmptyName(t *testing.T) {
	uc := NewSkillUsecase(&mockSkillRepo{}, nil, 0, 0)

	_, err := uc.FindOrCreate(context.Background(), "   ")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

// racySkillRepo misses the first lookup, rejects the create and then
// serves the row another writer landed in between.
type racySkillRepo struct {
	mockSkillRepo
	winner  repository.Skill
	lookups int
}

func (m *racySkillRepo) FindByName(context.Context, string) (repository.Skill, error) {
	m.lookups++
	if m.lookups == 1 {
		return repository.Skill{}, repository.ErrSkillNotFound
	}
	return m.winner, nil
}
func (m *racySkillRepo) Create(context.Context, string) (repository.Skill, error) {
	m.creates++
	return repository.Skill{}, repository.ErrSkillExists
}

func TestSkillUsecase_FindOrCreate_LostRaceRecovers(t *testing.T) {
	repo := &racySkillRepo{winner: repository.Skill{ID: uuid.New(), Name: "Rust"}}
	uc := NewSkillUsecase(repo, nil, 0, 0)

	item, err := uc.FindOrCreate(context.Background(), "Rust")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if item.ID != repo.winner.ID {
		t.Fatalf("expected the winner's row, got %+v", item)
	}
	if repo.creates != 1 || repo.lookups != 2 {
		t.Fatalf("expected lookup, create, lookup; got %d lookups %d creates", repo.lookups, repo.creates)
	}
}

func TestSkillUsecase_Search_CacheHit(t *testing.T) {
	repo := &mockSkillRepo{skills: []repository.Skill{{ID: uuid.New(), Name: "Go"}}}
	cache := newMockSearchCache()
	uc := NewSkillUsecase(repo, cache, time.Minute, 0)

	first, err := uc.Search(context.Background(), "go", 1, 20)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := uc.Search(context.Background(), "go", 1, 20)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if repo.searches != 1 {
		t.Fatalf("second search should hit the cache, repo hit %d times", repo.searches)
	}
	if first.Count != second.Count || len(second.Results) != 1 {
		t.Fatalf("cached page differs: %+v vs %+v", first, second)
	}
}

func TestSkillUsecase_Rename_InvalidatesSearchCache(t *testing.T) {
	repo := &mockSkillRepo{skills: []repository.Skill{{ID: uuid.New(), Name: "Go"}}}
	cache := newMockSearchCache()
	uc := NewSkillUsecase(repo, cache, time.Minute, 0)

	if _, err := uc.Search(context.Background(), "go", 1, 20); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.Rename(context.Background(), uuid.New(), "Golang"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if cache.deletes != 1 {
		t.Fatalf("rename must invalidate cached searches, got %d deletes", cache.deletes)
	}

	if _, err := uc.Search(context.Background(), "go", 1, 20); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.searches != 2 {
		t.Fatalf("post-invalidation search should reach the repo, hit %d times", repo.searches)
	}
}

func TestSkillUsecase_Holders_UnknownSkill(t *testing.T) {
	uc := NewSkillUsecase(&mockSkillRepo{}, nil, 0, 0)
	if _, err := uc.Holders(context.Background(), uuid.New(), 1, 20); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
}
