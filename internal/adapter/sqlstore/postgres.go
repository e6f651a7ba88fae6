package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// OpenPostgres connects to PostgreSQL, pings, and runs migrations.
func OpenPostgres(connStr string, log *logrus.Logger) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{sql: db, driver: "postgres", log: log}
	if err := s.migratePostgres(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migratePostgres(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS weights (user_id TEXT NOT NULL, day TEXT NOT NULL, weight DOUBLE PRECISION NOT NULL, created_at TIMESTAMPTZ NOT NULL, PRIMARY KEY(user_id, day));",
		"CREATE TABLE IF NOT EXISTS profiles (user_id TEXT PRIMARY KEY, points BIGINT NOT NULL DEFAULT 0, final_goal DOUBLE PRECISION, updated_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS period_goals (id BIGSERIAL PRIMARY KEY, user_id TEXT NOT NULL, start_day TEXT NOT NULL, end_day TEXT NOT NULL, target DOUBLE PRECISION, created_at TIMESTAMPTZ NOT NULL, UNIQUE(user_id, start_day, end_day));",
		"CREATE TABLE IF NOT EXISTS quests (id BIGSERIAL PRIMARY KEY, title TEXT NOT NULL, points BIGINT NOT NULL, icon TEXT NOT NULL DEFAULT '', description TEXT NOT NULL DEFAULT '', created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS rewards (id BIGSERIAL PRIMARY KEY, title TEXT NOT NULL, points BIGINT NOT NULL, icon TEXT NOT NULL DEFAULT '', description TEXT NOT NULL DEFAULT '', created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS wishes (id BIGSERIAL PRIMARY KEY, icon TEXT NOT NULL DEFAULT '', title TEXT NOT NULL, completed BOOLEAN NOT NULL DEFAULT FALSE, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS quest_history (id BIGSERIAL PRIMARY KEY, user_id TEXT NOT NULL, title TEXT NOT NULL, points BIGINT NOT NULL, occurred_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS reward_history (id BIGSERIAL PRIMARY KEY, user_id TEXT NOT NULL, title TEXT NOT NULL, points BIGINT NOT NULL, occurred_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_quest_history_user_occurred ON quest_history(user_id, occurred_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_reward_history_user_occurred ON reward_history(user_id, occurred_at DESC);",
	}
	for _, stmt := range stmts {
		if _, err := s.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Attribute catalog writes on schemas created before user columns
	// existed. Reads stay unscoped; the columns only record who wrote.
	alterStmts := []string{
		"ALTER TABLE quests ADD COLUMN IF NOT EXISTS user_id TEXT;",
		"ALTER TABLE rewards ADD COLUMN IF NOT EXISTS user_id TEXT;",
		"ALTER TABLE wishes ADD COLUMN IF NOT EXISTS user_id TEXT;",
	}
	for _, stmt := range alterStmts {
		if _, err := s.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
