package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

const createCoreTablesSQL = `
CREATE TABLE IF NOT EXISTS quizzes (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS attempts (
	id              BIGSERIAL PRIMARY KEY,
	quiz_id         TEXT NOT NULL,
	username        TEXT NOT NULL,
	points          INTEGER NOT NULL,
	correct_count   INTEGER NOT NULL,
	total_questions INTEGER NOT NULL,
	submitted_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT attempts_once_per_user UNIQUE (quiz_id, username)
);

CREATE INDEX IF NOT EXISTS attempts_quiz_recent ON attempts (quiz_id, submitted_at DESC);

CREATE TABLE IF NOT EXISTS leaderboard (
	username    TEXT PRIMARY KEY,
	total_score BIGINT NOT NULL DEFAULT 0 CHECK (total_score >= 0)
);

CREATE INDEX IF NOT EXISTS leaderboard_by_score ON leaderboard (total_score DESC, username ASC);
`

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createCoreTablesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS leaderboard, attempts, quizzes`)
			return err
		},
	)
}
