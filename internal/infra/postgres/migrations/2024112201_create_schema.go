package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS teams (
	team_id    TEXT PRIMARY KEY,
	team_name  TEXT NOT NULL,
	password   TEXT NOT NULL,
	is_active  BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS level_banks (
	id         BIGSERIAL PRIMARY KEY,
	data       JSONB NOT NULL,
	active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS level_attempts (
	id               BIGSERIAL PRIMARY KEY,
	team_id          TEXT NOT NULL,
	level_number     INT NOT NULL,
	score            INT NOT NULL,
	time_taken       DOUBLE PRECISION NOT NULL,
	cleared          BOOLEAN NOT NULL,
	letters_unlocked TEXT[] NOT NULL DEFAULT '{}',
	created_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS level_attempts_team_idx ON level_attempts (team_id, created_at);

CREATE TABLE IF NOT EXISTS final_word_attempts (
	id            BIGSERIAL PRIMARY KEY,
	team_id       TEXT NOT NULL,
	word          TEXT NOT NULL,
	attempts_used INT NOT NULL,
	is_correct    BOOLEAN NOT NULL,
	submitted_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS final_word_attempts_team_idx ON final_word_attempts (team_id, submitted_at);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS final_word_attempts;
DROP TABLE IF EXISTS level_attempts;
DROP TABLE IF EXISTS level_banks;
DROP TABLE IF EXISTS teams;
`

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createSchemaSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, dropSchemaSQL)
			return err
		},
	)
}
