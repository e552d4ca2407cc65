package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"team-forge/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProjectGone = errors.New("project deleted during operation")

type TeamMember struct {
	Position  int
	StudentID string
	Name      string
	Email     string
	Score     float64
	Details   json.RawMessage
}

type Team struct {
	ID        int64
	ProjectID uuid.UUID
	// Number is the per-project sequence in creation order, computed
	// server-side so clients never derive it from id density.
	Number    int
	CreatedAt time.Time
	Members   []TeamMember
}

type TeamFilter struct {
	ProjectID *uuid.UUID
	Ascending bool
	Limit     int
	Offset    int
}

type TeamRepository interface {
	Create(ctx context.Context, projectID uuid.UUID, members []TeamMember) (Team, error)
	FindByID(ctx context.Context, id int64) (Team, error)
	List(ctx context.Context, f TeamFilter) ([]Team, int, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PostgresTeamRepository struct {
	db database.DB
}

func NewPostgresTeamRepository(db database.DB) *PostgresTeamRepository {
	return &PostgresTeamRepository{db: db}
}

// Create persists the team and all member details in one transaction. The
// owning project is re-checked under lock; a project deleted mid-run
// surfaces as ErrProjectGone and nothing is written.
func (r *PostgresTeamRepository) Create(ctx context.Context, projectID uuid.UUID, members []TeamMember) (Team, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Team{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	if err := tx.QueryRow(ctx,
		`SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID,
	).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Team{}, ErrProjectGone
		}
		return Team{}, err
	}

	var t Team
	t.ProjectID = projectID
	if err := tx.QueryRow(ctx,
		`INSERT INTO teams (project_id) VALUES ($1) RETURNING id, created_at`,
		projectID,
	).Scan(&t.ID, &t.CreatedAt); err != nil {
		return Team{}, err
	}

	for i, m := range members {
		details := m.Details
		if details == nil {
			details = json.RawMessage(`[]`)
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO team_members (team_id, position, student_id, name, email, score, details)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, i, m.StudentID, m.Name, m.Email, m.Score, details,
		)
		if err != nil {
			return Team{}, err
		}
		m.Position = i
		t.Members = append(t.Members, m)
	}

	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM teams WHERE project_id = $1 AND (created_at, id) <= ($2, $3)`,
		projectID, t.CreatedAt, t.ID,
	).Scan(&t.Number); err != nil {
		return Team{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Team{}, err
	}
	return t, nil
}

func (r *PostgresTeamRepository) FindByID(ctx context.Context, id int64) (Team, error) {
	row := r.db.QueryRow(ctx,
		`SELECT x.id, x.project_id, x.created_at, x.seq FROM (
			SELECT t.id, t.project_id, t.created_at,
			       row_number() OVER (PARTITION BY t.project_id ORDER BY t.created_at, t.id) AS seq
			FROM teams t
		 ) x WHERE x.id = $1`,
		id,
	)

	var t Team
	if err := row.Scan(&t.ID, &t.ProjectID, &t.CreatedAt, &t.Number); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Team{}, ErrTeamNotFound
		}
		return Team{}, err
	}

	members, err := r.membersOf(ctx, []int64{t.ID})
	if err != nil {
		return Team{}, err
	}
	t.Members = members[t.ID]
	return t, nil
}

func (r *PostgresTeamRepository) List(ctx context.Context, f TeamFilter) ([]Team, int, error) {
	var count int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM teams WHERE ($1::uuid IS NULL OR project_id = $1)`,
		f.ProjectID,
	).Scan(&count); err != nil {
		return nil, 0, err
	}

	order := `ORDER BY x.created_at DESC, x.id DESC`
	if f.Ascending {
		order = `ORDER BY x.created_at ASC, x.id ASC`
	}

	rows, err := r.db.Query(ctx,
		`SELECT x.id, x.project_id, x.created_at, x.seq FROM (
			SELECT t.id, t.project_id, t.created_at,
			       row_number() OVER (PARTITION BY t.project_id ORDER BY t.created_at, t.id) AS seq
			FROM teams t
			WHERE ($1::uuid IS NULL OR t.project_id = $1)
		 ) x `+order+` LIMIT $2 OFFSET $3`,
		f.ProjectID, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Team, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.CreatedAt, &t.Number); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	members, err := r.membersOf(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].Members = members[out[i].ID]
	}
	return out, count, nil
}

func (r *PostgresTeamRepository) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := r.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PostgresTeamRepository) membersOf(ctx context.Context, teamIDs []int64) (map[int64][]TeamMember, error) {
	out := make(map[int64][]TeamMember, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT team_id, position, student_id, name, email, score, details
		 FROM team_members
		 WHERE team_id = ANY($1)
		 ORDER BY team_id, position`,
		teamIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			teamID int64
			m      TeamMember
		)
		if err := rows.Scan(&teamID, &m.Position, &m.StudentID, &m.Name, &m.Email, &m.Score, &m.Details); err != nil {
			return nil, err
		}
		out[teamID] = append(out[teamID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
