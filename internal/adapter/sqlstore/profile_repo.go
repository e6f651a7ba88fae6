package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
	"github.com/Soiya59/jijibaba-taijyu/internal/metrics"
)

// Profiles hold the per-user balance and final goal. The table is keyed
// by user, so there is no unscoped form to fall back to.

// EnsureBalance creates the points row with value 0 if the user has none.
// An existing balance is never touched.
func (s *Store) EnsureBalance(ctx context.Context, user domain.UserIdentity) error {
	metrics.StoreOps.WithLabelValues("profiles", "ensure").Inc()
	_, err := s.sql.ExecContext(ctx,
		"INSERT INTO profiles(user_id, points, updated_at) VALUES($1, 0, $2) ON CONFLICT(user_id) DO NOTHING;",
		string(user), time.Now().UTC(),
	)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("profiles").Inc()
	}
	return err
}

// Balance returns the user's stored point total, zero when no row exists.
func (s *Store) Balance(ctx context.Context, user domain.UserIdentity) (int, error) {
	metrics.StoreOps.WithLabelValues("profiles", "balance").Inc()
	var points int
	err := s.sql.QueryRowContext(ctx,
		"SELECT points FROM profiles WHERE user_id=$1;", string(user),
	).Scan(&points)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		metrics.StoreErrors.WithLabelValues("profiles").Inc()
		return 0, err
	}
	return points, nil
}

// SetBalance stores the user's point total, creating the row if needed.
func (s *Store) SetBalance(ctx context.Context, user domain.UserIdentity, points int) error {
	metrics.StoreOps.WithLabelValues("profiles", "set_balance").Inc()
	_, err := s.sql.ExecContext(ctx,
		"INSERT INTO profiles(user_id, points, updated_at) VALUES($1, $2, $3) ON CONFLICT(user_id) DO UPDATE SET points=EXCLUDED.points, updated_at=EXCLUDED.updated_at;",
		string(user), points, time.Now().UTC(),
	)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("profiles").Inc()
	}
	return err
}

// FinalGoal returns the user's open-ended target, nil Target when unset.
func (s *Store) FinalGoal(ctx context.Context, user domain.UserIdentity) (*domain.FinalGoal, error) {
	metrics.StoreOps.WithLabelValues("profiles", "final_goal").Inc()
	var target sql.NullFloat64
	err := s.sql.QueryRowContext(ctx,
		"SELECT final_goal FROM profiles WHERE user_id=$1;", string(user),
	).Scan(&target)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.FinalGoal{User: user}, nil
	}
	if err != nil {
		metrics.StoreErrors.WithLabelValues("profiles").Inc()
		return nil, err
	}
	goal := &domain.FinalGoal{User: user}
	if target.Valid {
		goal.Target = &target.Float64
	}
	return goal, nil
}

// SaveFinalGoal stores the open-ended target. Last write wins.
func (s *Store) SaveFinalGoal(ctx context.Context, user domain.UserIdentity, target float64) error {
	metrics.StoreOps.WithLabelValues("profiles", "save_final_goal").Inc()
	_, err := s.sql.ExecContext(ctx,
		"INSERT INTO profiles(user_id, points, final_goal, updated_at) VALUES($1, 0, $2, $3) ON CONFLICT(user_id) DO UPDATE SET final_goal=EXCLUDED.final_goal, updated_at=EXCLUDED.updated_at;",
		string(user), target, time.Now().UTC(),
	)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("profiles").Inc()
	}
	return err
}
