package repository

import (
	"context"
	"errors"
	"time"

	"team-forge/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Project struct {
	ID              uuid.UUID
	Title           string
	Description     string
	CuratorID       *uuid.UUID
	CuratorName     string
	MinParticipants int
	MaxParticipants int
	CreatedAt       time.Time
}

type ProjectUpdate struct {
	Title           *string
	Description     *string
	CuratorID       *uuid.UUID
	MinParticipants *int
	MaxParticipants *int
}

type ProjectRepository interface {
	Create(ctx context.Context, p Project) (Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (Project, error)
	List(ctx context.Context, query string, limit, offset int) ([]Project, int, error)
	Update(ctx context.Context, id uuid.UUID, upd ProjectUpdate) (Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresProjectRepository struct {
	db database.DB
}

func NewPostgresProjectRepository(db database.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

const projectSelect = `
	SELECT p.id, p.title, p.description, p.curator_id, COALESCE(u.name, ''),
	       p.min_participants, p.max_participants, p.created_at
	FROM projects p
	LEFT JOIN users u ON u.id = p.curator_id`

func scanProject(row database.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.CuratorID, &p.CuratorName,
		&p.MinParticipants, &p.MaxParticipants, &p.CreatedAt)
	return p, err
}

func (r *PostgresProjectRepository) Create(ctx context.Context, p Project) (Project, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO projects (id, title, description, curator_id, min_participants, max_participants)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Title, p.Description, p.CuratorID, p.MinParticipants, p.MaxParticipants,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Project{}, ErrProjectTitleTaken
		}
		if isForeignKeyViolation(err) {
			return Project{}, ErrUserNotFound
		}
		return Project{}, err
	}
	return r.FindByID(ctx, p.ID)
}

func (r *PostgresProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, projectSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, ErrProjectNotFound
		}
		return Project{}, err
	}
	return p, nil
}

func (r *PostgresProjectRepository) List(ctx context.Context, query string, limit, offset int) ([]Project, int, error) {
	var count int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM projects WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')`,
		query,
	).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		projectSelect+`
		 WHERE ($1 = '' OR p.title ILIKE '%' || $1 || '%')
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT $2 OFFSET $3`,
		query, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Project, 0)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CuratorID, &p.CuratorName,
			&p.MinParticipants, &p.MaxParticipants, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

func (r *PostgresProjectRepository) Update(ctx context.Context, id uuid.UUID, upd ProjectUpdate) (Project, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Project{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cur, err := scanProject(tx.QueryRow(ctx, projectSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, ErrProjectNotFound
		}
		return Project{}, err
	}

	if upd.Title != nil {
		cur.Title = *upd.Title
	}
	if upd.Description != nil {
		cur.Description = *upd.Description
	}
	if upd.CuratorID != nil {
		cur.CuratorID = upd.CuratorID
	}
	if upd.MinParticipants != nil {
		cur.MinParticipants = *upd.MinParticipants
	}
	if upd.MaxParticipants != nil {
		cur.MaxParticipants = *upd.MaxParticipants
	}

	if cur.MinParticipants < 1 || cur.MaxParticipants < cur.MinParticipants {
		return Project{}, ErrInvalidBounds
	}

	_, err = tx.Exec(ctx,
		`UPDATE projects
		 SET title = $1, description = $2, curator_id = $3, min_participants = $4, max_participants = $5
		 WHERE id = $6`,
		cur.Title, cur.Description, cur.CuratorID, cur.MinParticipants, cur.MaxParticipants, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Project{}, ErrProjectTitleTaken
		}
		return Project{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Project{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
