package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

// PeriodGoals returns all of the user's date-ranged goals.
func (s *Store) PeriodGoals(ctx context.Context, user domain.UserIdentity) ([]domain.PeriodGoal, error) {
	var out []domain.PeriodGoal
	err := s.queryScoped(ctx, "period_goals", "list",
		"SELECT start_day, end_day, target FROM period_goals WHERE user_id=$1;",
		"SELECT start_day, end_day, target FROM period_goals;",
		[]any{string(user)}, nil,
		func(rows *sql.Rows) error {
			for rows.Next() {
				var goal domain.PeriodGoal
				var target sql.NullFloat64
				if err := rows.Scan(&goal.Start, &goal.End, &target); err != nil {
					return err
				}
				goal.User = user
				if target.Valid {
					goal.Target = &target.Float64
				}
				out = append(out, goal)
			}
			return rows.Err()
		},
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SavePeriodGoal upserts a goal on its (user, start, end) key: the same
// range updates the target in place, a new range creates a new goal.
func (s *Store) SavePeriodGoal(ctx context.Context, goal domain.PeriodGoal) error {
	var target sql.NullFloat64
	if goal.Target != nil {
		target = sql.NullFloat64{Float64: *goal.Target, Valid: true}
	}
	now := time.Now().UTC()
	return s.execScoped(ctx, "period_goals", "save",
		"INSERT INTO period_goals(user_id, start_day, end_day, target, created_at) VALUES($1, $2, $3, $4, $5) ON CONFLICT(user_id, start_day, end_day) DO UPDATE SET target=EXCLUDED.target;",
		"INSERT INTO period_goals(start_day, end_day, target, created_at) VALUES($1, $2, $3, $4) ON CONFLICT(start_day, end_day) DO UPDATE SET target=EXCLUDED.target;",
		[]any{string(goal.User), string(goal.Start), string(goal.End), target, now},
		[]any{string(goal.Start), string(goal.End), target, now},
	)
}
