package schema

import (
	"context"
	"fmt"

	"team-forge/internal/database"
)

// statements run in order on startup; every statement is idempotent so a
// crashed bootstrap can simply re-run.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS skills (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS skills_name_lower_key ON skills (lower(name))`,

	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		role       TEXT NOT NULL CHECK (role IN ('curator', 'student')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS student_skills (
		id         UUID PRIMARY KEY,
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		skill_id   UUID NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		level      SMALLINT NOT NULL CHECK (level BETWEEN 1 AND 5),
		UNIQUE (student_id, skill_id)
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id               UUID PRIMARY KEY,
		title            TEXT NOT NULL UNIQUE,
		description      TEXT NOT NULL DEFAULT '',
		curator_id       UUID REFERENCES users(id) ON DELETE SET NULL,
		min_participants INT NOT NULL CHECK (min_participants >= 1),
		max_participants INT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (max_participants >= min_participants)
	)`,

	`CREATE TABLE IF NOT EXISTS requirements (
		id         UUID PRIMARY KEY,
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		skill_id   UUID NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		level      SMALLINT NOT NULL CHECK (level BETWEEN 1 AND 5),
		UNIQUE (project_id, skill_id)
	)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id         BIGSERIAL PRIMARY KEY,
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS teams_project_created_idx ON teams (project_id, created_at, id)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		team_id    BIGINT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		position   INT NOT NULL,
		student_id TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		score      DOUBLE PRECISION NOT NULL DEFAULT 0,
		details    JSONB NOT NULL DEFAULT '[]',
		PRIMARY KEY (team_id, position)
	)`,
}

// Apply creates the schema if it does not exist yet.
func Apply(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
