package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"team-forge/internal/domain/roster"
	"team-forge/internal/pkg/page"
	"team-forge/internal/repository"

	"github.com/google/uuid"
)

type UserSkillItem struct {
	SkillID   uuid.UUID `json:"skill"`
	SkillName string    `json:"skill_name"`
	Level     int       `json:"level"`
}

type UserItem struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   string          `json:"role"`
	Skills []UserSkillItem `json:"skills"`
}

// ImportStudent is one row of an imported skill matrix: levels keyed by
// skill name, fractional 0-1 values allowed.
type ImportStudent struct {
	ID     uuid.UUID          `json:"id"`
	Skills map[string]float64 `json:"skills"`
}

type UserUsecase interface {
	List(ctx context.Context, role, query string, pageNum, pageSize int) (page.Page[UserItem], error)
	Get(ctx context.Context, id uuid.UUID) (UserItem, error)
	ImportSkills(ctx context.Context, students []ImportStudent) (int, error)
}

type User struct {
	repo      repository.UserRepository
	skills    SkillUsecase
	ioTimeout time.Duration
}

func NewUserUsecase(repo repository.UserRepository, skills SkillUsecase, ioTimeout time.Duration) *User {
	return &User{repo: repo, skills: skills, ioTimeout: ioTimeout}
}

func (u *User) List(ctx context.Context, role, query string, pageNum, pageSize int) (page.Page[UserItem], error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	switch role {
	case "", repository.RoleCurator, repository.RoleStudent:
	default:
		return page.Page[UserItem]{}, fieldError("role", "must be curator or student")
	}

	limit, offset := page.Offset(pageNum, pageSize)
	users, count, err := u.repo.ListByRole(ctx, role, strings.TrimSpace(query), limit, offset)
	if err != nil {
		return page.Page[UserItem]{}, infraErr(err)
	}

	out := make([]UserItem, 0, len(users))
	for _, usr := range users {
		item, err := u.withSkills(ctx, usr)
		if err != nil {
			return page.Page[UserItem]{}, err
		}
		out = append(out, item)
	}
	return page.New(out, count), nil
}

func (u *User) Get(ctx context.Context, id uuid.UUID) (UserItem, error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	usr, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return UserItem{}, ErrUserNotFound
		}
		return UserItem{}, infraErr(err)
	}
	return u.withSkills(ctx, usr)
}

// ImportSkills ingests a student-by-skill matrix: skills are resolved or
// created by name, fractional levels normalized, and all level rows written
// in one transaction. Returns the number of level entries imported.
func (u *User) ImportSkills(ctx context.Context, students []ImportStudent) (int, error) {
	ctx, cancel := withIOTimeout(ctx, u.ioTimeout)
	defer cancel()

	if len(students) == 0 {
		return 0, fieldError("students", "must not be empty")
	}

	ups := make([]repository.StudentSkillUpsert, 0)
	for i, st := range students {
		if st.ID == uuid.Nil {
			return 0, fieldError(fmt.Sprintf("students[%d].id", i), "must not be empty")
		}
		for name, raw := range st.Skills {
			level := roster.Level(raw)
			if level == 0 {
				continue
			}
			skill, err := u.skills.FindOrCreate(ctx, name)
			if err != nil {
				return 0, err
			}
			ups = append(ups, repository.StudentSkillUpsert{
				StudentID: st.ID,
				SkillID:   skill.ID,
				Level:     level,
			})
		}
	}

	if err := u.repo.ReplaceStudentSkills(ctx, ups); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, infraErr(err)
	}
	return len(ups), nil
}

func (u *User) withSkills(ctx context.Context, usr repository.User) (UserItem, error) {
	item := UserItem{ID: usr.ID, Name: usr.Name, Email: usr.Email, Role: usr.Role, Skills: make([]UserSkillItem, 0)}
	if usr.Role != repository.RoleStudent {
		return item, nil
	}

	skills, err := u.repo.SkillsOf(ctx, usr.ID)
	if err != nil {
		return UserItem{}, infraErr(err)
	}
	for _, s := range skills {
		item.Skills = append(item.Skills, UserSkillItem{SkillID: s.SkillID, SkillName: s.SkillName, Level: s.Level})
	}
	return item, nil
}
