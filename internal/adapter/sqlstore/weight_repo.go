package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

// UpsertWeight writes the user's weight for one calendar day, replacing
// any earlier value for that day.
func (s *Store) UpsertWeight(ctx context.Context, user domain.UserIdentity, date domain.DateKey, weight float64) error {
	now := time.Now().UTC()
	return s.execScoped(ctx, "weights", "upsert",
		"INSERT INTO weights(user_id, day, weight, created_at) VALUES($1, $2, $3, $4) ON CONFLICT(user_id, day) DO UPDATE SET weight=EXCLUDED.weight;",
		"INSERT INTO weights(day, weight, created_at) VALUES($1, $2, $3) ON CONFLICT(day) DO UPDATE SET weight=EXCLUDED.weight;",
		[]any{string(user), string(date), weight, now},
		[]any{string(date), weight, now},
	)
}

// ListWeights returns all of the user's samples in ascending date order.
func (s *Store) ListWeights(ctx context.Context, user domain.UserIdentity) ([]domain.WeightSample, error) {
	var out []domain.WeightSample
	err := s.queryScoped(ctx, "weights", "list",
		"SELECT day, weight FROM weights WHERE user_id=$1 ORDER BY day ASC;",
		"SELECT day, weight FROM weights ORDER BY day ASC;",
		[]any{string(user)}, nil,
		func(rows *sql.Rows) error {
			for rows.Next() {
				var sample domain.WeightSample
				if err := rows.Scan(&sample.Date, &sample.Weight); err != nil {
					return err
				}
				out = append(out, sample)
			}
			return rows.Err()
		},
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WeightsInRange returns the user's samples with from <= day < to, in
// ascending date order.
func (s *Store) WeightsInRange(ctx context.Context, user domain.UserIdentity, from, to domain.DateKey) ([]domain.WeightSample, error) {
	var out []domain.WeightSample
	err := s.queryScoped(ctx, "weights", "range",
		"SELECT day, weight FROM weights WHERE user_id=$1 AND day >= $2 AND day < $3 ORDER BY day ASC;",
		"SELECT day, weight FROM weights WHERE day >= $1 AND day < $2 ORDER BY day ASC;",
		[]any{string(user), string(from), string(to)},
		[]any{string(from), string(to)},
		func(rows *sql.Rows) error {
			for rows.Next() {
				var sample domain.WeightSample
				if err := rows.Scan(&sample.Date, &sample.Weight); err != nil {
					return err
				}
				out = append(out, sample)
			}
			return rows.Err()
		},
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}
