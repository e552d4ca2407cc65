package repository

import (
	"context"
	"errors"
	"time"

	"team-forge/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	RoleCurator = "curator"
	RoleStudent = "student"
)

type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
}

type UserSkill struct {
	SkillID   uuid.UUID
	SkillName string
	Level     int
}

// StudentProfile is a student with their full skill matrix, the unit the
// matcher consumes.
type StudentProfile struct {
	ID     uuid.UUID
	Name   string
	Email  string
	Skills []UserSkill
}

type StudentSkillUpsert struct {
	StudentID uuid.UUID
	SkillID   uuid.UUID
	Level     int
}

type UserRepository interface {
	ListByRole(ctx context.Context, role, query string, limit, offset int) ([]User, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (User, error)
	SkillsOf(ctx context.Context, studentID uuid.UUID) ([]UserSkill, error)
	StudentProfiles(ctx context.Context) ([]StudentProfile, error)
	ReplaceStudentSkills(ctx context.Context, ups []StudentSkillUpsert) error
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) ListByRole(ctx context.Context, role, query string, limit, offset int) ([]User, int, error) {
	var count int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM users
		 WHERE ($1 = '' OR role = $1)
		   AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')`,
		role, query,
	).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, role, created_at FROM users
		 WHERE ($1 = '' OR role = $1)
		   AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
		 ORDER BY name ASC, id ASC
		 LIMIT $3 OFFSET $4`,
		role, query, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, role, created_at FROM users WHERE id = $1`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) SkillsOf(ctx context.Context, studentID uuid.UUID) ([]UserSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ss.skill_id, s.name, ss.level
		 FROM student_skills ss
		 JOIN skills s ON s.id = ss.skill_id
		 WHERE ss.student_id = $1
		 ORDER BY s.name ASC`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserSkill, 0)
	for rows.Next() {
		var us UserSkill
		if err := rows.Scan(&us.SkillID, &us.SkillName, &us.Level); err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// StudentProfiles loads every student with their skill rows in one pass,
// grouped in memory. The candidate pool is read-heavy and bounded by the
// student body size, so one flat join beats N+1 lookups.
func (r *PostgresUserRepository) StudentProfiles(ctx context.Context) ([]StudentProfile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.email, ss.skill_id, s.name, ss.level
		 FROM users u
		 LEFT JOIN student_skills ss ON ss.student_id = u.id
		 LEFT JOIN skills s ON s.id = ss.skill_id
		 WHERE u.role = $1
		 ORDER BY u.id ASC`,
		RoleStudent,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StudentProfile, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			id        uuid.UUID
			name      string
			email     string
			skillID   *uuid.UUID
			skillName *string
			level     *int
		)
		if err := rows.Scan(&id, &name, &email, &skillID, &skillName, &level); err != nil {
			return nil, err
		}

		i, ok := index[id]
		if !ok {
			out = append(out, StudentProfile{ID: id, Name: name, Email: email, Skills: make([]UserSkill, 0, 4)})
			i = len(out) - 1
			index[id] = i
		}
		if skillID != nil && skillName != nil && level != nil {
			out[i].Skills = append(out[i].Skills, UserSkill{SkillID: *skillID, SkillName: *skillName, Level: *level})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceStudentSkills upserts a batch of (student, skill, level) rows in
// one transaction, used by the skill-matrix import.
func (r *PostgresUserRepository) ReplaceStudentSkills(ctx context.Context, ups []StudentSkillUpsert) error {
	if len(ups) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, up := range ups {
		_, err := tx.Exec(ctx,
			`INSERT INTO student_skills (id, student_id, skill_id, level)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (student_id, skill_id) DO UPDATE SET level = EXCLUDED.level`,
			uuid.New(), up.StudentID, up.SkillID, up.Level,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrUserNotFound
			}
			return err
		}
	}

	return tx.Commit(ctx)
}
