package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

// HistoryRepo serves one per-user activity log table (quest_history or
// reward_history).
type HistoryRepo struct {
	s     *Store
	table string
}

// AppendHistory stores one log entry and returns it with its assigned id.
// Placeholders never reach the store; only real entries are appended.
func (r *HistoryRepo) AppendHistory(ctx context.Context, user domain.UserIdentity, entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	var id int64
	err := r.s.queryRowScoped(ctx, r.table, "append",
		fmt.Sprintf("INSERT INTO %s(user_id, title, points, occurred_at) VALUES($1, $2, $3, $4) RETURNING id;", r.table),
		fmt.Sprintf("INSERT INTO %s(title, points, occurred_at) VALUES($1, $2, $3) RETURNING id;", r.table),
		[]any{string(user), entry.Title, entry.Points, entry.OccurredAt.UTC()},
		[]any{entry.Title, entry.Points, entry.OccurredAt.UTC()},
		func(row *sql.Row) error { return row.Scan(&id) },
	)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	entry.ID = domain.StoredID(id)
	return entry, nil
}

// RecentHistory returns up to limit of the user's entries newest-first.
func (r *HistoryRepo) RecentHistory(ctx context.Context, user domain.UserIdentity, limit int) ([]domain.HistoryEntry, error) {
	var out []domain.HistoryEntry
	err := r.s.queryScoped(ctx, r.table, "recent",
		fmt.Sprintf("SELECT id, title, points, occurred_at FROM %s WHERE user_id=$1 ORDER BY occurred_at DESC, id DESC LIMIT $2;", r.table),
		fmt.Sprintf("SELECT id, title, points, occurred_at FROM %s ORDER BY occurred_at DESC, id DESC LIMIT $1;", r.table),
		[]any{string(user), limit},
		[]any{limit},
		func(rows *sql.Rows) error {
			for rows.Next() {
				var entry domain.HistoryEntry
				var id int64
				if err := rows.Scan(&id, &entry.Title, &entry.Points, &entry.OccurredAt); err != nil {
					return err
				}
				entry.ID = domain.StoredID(id)
				out = append(out, entry)
			}
			return rows.Err()
		},
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}
