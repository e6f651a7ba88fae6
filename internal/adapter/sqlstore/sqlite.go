package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// ResolveSQLitePath returns the database file location: the explicit path
// when given, otherwise a per-user data directory.
func ResolveSQLitePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "taijyu", "taijyu.db"), nil
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// runs migrations. The parent directory is created when missing.
func OpenSQLite(path string, log *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, err
	}
	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY churn between the two sessions.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{sql: db, driver: "sqlite", log: log}
	if err := s.migrateSQLite(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrateSQLite(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS weights (user_id TEXT NOT NULL, day TEXT NOT NULL, weight REAL NOT NULL, created_at TIMESTAMP NOT NULL, PRIMARY KEY(user_id, day));",
		"CREATE TABLE IF NOT EXISTS profiles (user_id TEXT PRIMARY KEY, points INTEGER NOT NULL DEFAULT 0, final_goal REAL, updated_at TIMESTAMP NOT NULL);",
		"CREATE TABLE IF NOT EXISTS period_goals (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id TEXT NOT NULL, start_day TEXT NOT NULL, end_day TEXT NOT NULL, target REAL, created_at TIMESTAMP NOT NULL, UNIQUE(user_id, start_day, end_day));",
		"CREATE TABLE IF NOT EXISTS quests (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL, points INTEGER NOT NULL, icon TEXT NOT NULL DEFAULT '', description TEXT NOT NULL DEFAULT '', created_at TIMESTAMP NOT NULL);",
		"CREATE TABLE IF NOT EXISTS rewards (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL, points INTEGER NOT NULL, icon TEXT NOT NULL DEFAULT '', description TEXT NOT NULL DEFAULT '', created_at TIMESTAMP NOT NULL);",
		"CREATE TABLE IF NOT EXISTS wishes (id INTEGER PRIMARY KEY AUTOINCREMENT, icon TEXT NOT NULL DEFAULT '', title TEXT NOT NULL, completed INTEGER NOT NULL DEFAULT 0, created_at TIMESTAMP NOT NULL);",
		"CREATE TABLE IF NOT EXISTS quest_history (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id TEXT NOT NULL, title TEXT NOT NULL, points INTEGER NOT NULL, occurred_at TIMESTAMP NOT NULL);",
		"CREATE TABLE IF NOT EXISTS reward_history (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id TEXT NOT NULL, title TEXT NOT NULL, points INTEGER NOT NULL, occurred_at TIMESTAMP NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_quest_history_user_occurred ON quest_history(user_id, occurred_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_reward_history_user_occurred ON reward_history(user_id, occurred_at DESC);",
	}
	for _, stmt := range stmts {
		if _, err := s.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// SQLite has no ADD COLUMN IF NOT EXISTS; tolerate the duplicate.
	alterStmts := []string{
		"ALTER TABLE quests ADD COLUMN user_id TEXT;",
		"ALTER TABLE rewards ADD COLUMN user_id TEXT;",
		"ALTER TABLE wishes ADD COLUMN user_id TEXT;",
	}
	for _, stmt := range alterStmts {
		if _, err := s.sql.ExecContext(ctx, stmt); err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
