package repository

import (
	"context"
	"errors"

	"team-forge/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Requirement struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	SkillID   uuid.UUID
	SkillName string
	Level     int
}

type RequirementInput struct {
	SkillID uuid.UUID
	Level   int
}

type RequirementRepository interface {
	Upsert(ctx context.Context, projectID, skillID uuid.UUID, level int) error
	Delete(ctx context.Context, projectID, skillID uuid.UUID) (bool, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Requirement, error)
	Replace(ctx context.Context, projectID uuid.UUID, items []RequirementInput) error
}

type PostgresRequirementRepository struct {
	db database.DB
}

func NewPostgresRequirementRepository(db database.DB) *PostgresRequirementRepository {
	return &PostgresRequirementRepository{db: db}
}

func (r *PostgresRequirementRepository) Upsert(ctx context.Context, projectID, skillID uuid.UUID, level int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO requirements (id, project_id, skill_id, level)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (project_id, skill_id) DO UPDATE SET level = EXCLUDED.level`,
		uuid.New(), projectID, skillID, level,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresRequirementRepository) Delete(ctx context.Context, projectID, skillID uuid.UUID) (bool, error) {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM requirements WHERE project_id = $1 AND skill_id = $2`,
		projectID, skillID,
	)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PostgresRequirementRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Requirement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT req.id, req.project_id, req.skill_id, s.name, req.level
		 FROM requirements req
		 JOIN skills s ON s.id = req.skill_id
		 WHERE req.project_id = $1
		 ORDER BY s.name ASC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Requirement, 0)
	for rows.Next() {
		var req Requirement
		if err := rows.Scan(&req.ID, &req.ProjectID, &req.SkillID, &req.SkillName, &req.Level); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Replace swaps the whole requirement set atomically. The project row is
// locked for the duration, so two concurrent syncs on the same project
// serialize instead of interleaving partial writes.
func (r *PostgresRequirementRepository) Replace(ctx context.Context, projectID uuid.UUID, items []RequirementInput) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	if err := tx.QueryRow(ctx,
		`SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID,
	).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProjectNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM requirements WHERE project_id = $1`, projectID); err != nil {
		return err
	}

	for _, it := range items {
		_, err := tx.Exec(ctx,
			`INSERT INTO requirements (id, project_id, skill_id, level) VALUES ($1, $2, $3, $4)`,
			uuid.New(), projectID, it.SkillID, it.Level,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrSkillNotFound
			}
			return err
		}
	}

	return tx.Commit(ctx)
}
