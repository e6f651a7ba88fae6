// Package sqlstore implements the domain repositories over database/sql.
// The same SQL serves both supported drivers: PostgreSQL for the shared
// household deployment and SQLite for a single-machine install. Both
// accept $1-style placeholders and RETURNING clauses.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
	"github.com/Soiya59/jijibaba-taijyu/internal/metrics"
)

// Store wraps a *sql.DB and implements the domain repository interfaces.
//
// Legacy deployments predate per-user attribution: their tables lack the
// user_id column. Rather than migrate destructively, scoped statements
// fall back to an unscoped variant once per table and the capability is
// cached, so the fallback costs one failed round trip per table per
// process lifetime.
type Store struct {
	sql    *sql.DB
	driver string
	log    *logrus.Logger

	mu       sync.Mutex
	unscoped map[string]bool
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.sql.Close()
}

// Quests returns the shared quest catalog repository.
func (s *Store) Quests() *CatalogRepo {
	return &CatalogRepo{s: s, table: "quests"}
}

// Rewards returns the shared reward catalog repository.
func (s *Store) Rewards() *CatalogRepo {
	return &CatalogRepo{s: s, table: "rewards"}
}

// QuestHistory returns the per-user quest completion log repository.
func (s *Store) QuestHistory() *HistoryRepo {
	return &HistoryRepo{s: s, table: "quest_history"}
}

// RewardHistory returns the per-user reward redemption log repository.
func (s *Store) RewardHistory() *HistoryRepo {
	return &HistoryRepo{s: s, table: "reward_history"}
}

// isUndefinedColumn reports whether err marks a legacy table without the
// user attribution column: either driver's "column does not exist"
// failure, or the domain sentinel for callers that pre-classified it.
func isUndefinedColumn(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrScopingUnsupported) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42703" // undefined_column
	}
	return strings.Contains(err.Error(), "no such column")
}

func (s *Store) scopingDisabled(table string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unscoped[table]
}

func (s *Store) disableScoping(table string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unscoped == nil {
		s.unscoped = make(map[string]bool)
	}
	if !s.unscoped[table] {
		s.unscoped[table] = true
		metrics.ScopingFallbacks.WithLabelValues(table).Inc()
		s.log.WithField("table", table).Warn("user scoping unsupported, falling back to unscoped statements")
	}
}

// execScoped runs the scoped statement unless the table is already known
// to be legacy, retrying once unscoped when the scoped form fails on a
// missing column. Any other error surfaces unchanged.
func (s *Store) execScoped(ctx context.Context, table, op, scoped, unscoped string, scopedArgs, unscopedArgs []any) error {
	metrics.StoreOps.WithLabelValues(table, op).Inc()
	if !s.scopingDisabled(table) {
		_, err := s.sql.ExecContext(ctx, scoped, scopedArgs...)
		if err == nil {
			return nil
		}
		if !isUndefinedColumn(err) {
			metrics.StoreErrors.WithLabelValues(table).Inc()
			return err
		}
		s.disableScoping(table)
	}
	if _, err := s.sql.ExecContext(ctx, unscoped, unscopedArgs...); err != nil {
		metrics.StoreErrors.WithLabelValues(table).Inc()
		return err
	}
	return nil
}

// queryRowScoped is execScoped for single-row reads. scan is invoked on
// whichever variant ran.
func (s *Store) queryRowScoped(ctx context.Context, table, op, scoped, unscoped string, scopedArgs, unscopedArgs []any, scan func(*sql.Row) error) error {
	metrics.StoreOps.WithLabelValues(table, op).Inc()
	if !s.scopingDisabled(table) {
		err := scan(s.sql.QueryRowContext(ctx, scoped, scopedArgs...))
		if err == nil || errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if !isUndefinedColumn(err) {
			metrics.StoreErrors.WithLabelValues(table).Inc()
			return err
		}
		s.disableScoping(table)
	}
	err := scan(s.sql.QueryRowContext(ctx, unscoped, unscopedArgs...))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		metrics.StoreErrors.WithLabelValues(table).Inc()
	}
	return err
}

// queryScoped is execScoped for multi-row reads.
func (s *Store) queryScoped(ctx context.Context, table, op, scoped, unscoped string, scopedArgs, unscopedArgs []any, collect func(*sql.Rows) error) error {
	metrics.StoreOps.WithLabelValues(table, op).Inc()
	if !s.scopingDisabled(table) {
		rows, err := s.sql.QueryContext(ctx, scoped, scopedArgs...)
		if err == nil {
			defer rows.Close()
			return collect(rows)
		}
		if !isUndefinedColumn(err) {
			metrics.StoreErrors.WithLabelValues(table).Inc()
			return err
		}
		s.disableScoping(table)
	}
	rows, err := s.sql.QueryContext(ctx, unscoped, unscopedArgs...)
	if err != nil {
		metrics.StoreErrors.WithLabelValues(table).Inc()
		return err
	}
	defer rows.Close()
	return collect(rows)
}
