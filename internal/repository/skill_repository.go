package repository

import (
	"context"
	"errors"
	"time"

	"team-forge/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Skill struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// SkillHolder is a student together with their level for one skill.
type SkillHolder struct {
	StudentID uuid.UUID
	Name      string
	Email     string
	Level     int
}

type SkillRepository interface {
	FindByName(ctx context.Context, name string) (Skill, error)
	FindByID(ctx context.Context, id uuid.UUID) (Skill, error)
	Create(ctx context.Context, name string) (Skill, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (Skill, error)
	Search(ctx context.Context, query string, limit, offset int) ([]Skill, int, error)
	Holders(ctx context.Context, skillID uuid.UUID, limit, offset int) ([]SkillHolder, int, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) FindByName(ctx context.Context, name string) (Skill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM skills WHERE lower(name) = lower($1)`,
		name,
	)
	var s Skill
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Skill{}, ErrSkillNotFound
		}
		return Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) FindByID(ctx context.Context, id uuid.UUID) (Skill, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM skills WHERE id = $1`, id)
	var s Skill
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Skill{}, ErrSkillNotFound
		}
		return Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) Create(ctx context.Context, name string) (Skill, error) {
	id := uuid.New()
	row := r.db.QueryRow(ctx,
		`INSERT INTO skills (id, name) VALUES ($1, $2) RETURNING id, name, created_at`,
		id, name,
	)
	var s Skill
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return Skill{}, ErrSkillExists
		}
		return Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) Rename(ctx context.Context, id uuid.UUID, name string) (Skill, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE skills SET name = $1 WHERE id = $2 RETURNING id, name, created_at`,
		name, id,
	)
	var s Skill
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Skill{}, ErrSkillNotFound
		}
		if isUniqueViolation(err) {
			return Skill{}, ErrSkillExists
		}
		return Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) Search(ctx context.Context, query string, limit, offset int) ([]Skill, int, error) {
	var count int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM skills WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`,
		query,
	).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM skills
		 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		 ORDER BY name ASC, id ASC
		 LIMIT $2 OFFSET $3`,
		query, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

func (r *PostgresSkillRepository) Holders(ctx context.Context, skillID uuid.UUID, limit, offset int) ([]SkillHolder, int, error) {
	var count int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM student_skills WHERE skill_id = $1`,
		skillID,
	).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.email, ss.level
		 FROM student_skills ss
		 JOIN users u ON u.id = ss.student_id
		 WHERE ss.skill_id = $1
		 ORDER BY u.name ASC, u.id ASC
		 LIMIT $2 OFFSET $3`,
		skillID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]SkillHolder, 0)
	for rows.Next() {
		var h SkillHolder
		if err := rows.Scan(&h.StudentID, &h.Name, &h.Email, &h.Level); err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, count, nil
}
