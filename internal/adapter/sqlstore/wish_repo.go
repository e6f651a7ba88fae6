package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
	"github.com/Soiya59/jijibaba-taijyu/internal/metrics"
)

// ListWishes returns the shared wish list newest-first.
func (s *Store) ListWishes(ctx context.Context) ([]domain.WishItem, error) {
	metrics.StoreOps.WithLabelValues("wishes", "list").Inc()
	rows, err := s.sql.QueryContext(ctx,
		"SELECT id, icon, title, completed, created_at FROM wishes ORDER BY created_at DESC, id DESC;")
	if err != nil {
		metrics.StoreErrors.WithLabelValues("wishes").Inc()
		return nil, err
	}
	defer rows.Close()

	var out []domain.WishItem
	for rows.Next() {
		var item domain.WishItem
		var id int64
		if err := rows.Scan(&id, &item.Icon, &item.Title, &item.Completed, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.ID = domain.StoredID(id)
		out = append(out, item)
	}
	return out, rows.Err()
}

// InsertWish stores a new wish and returns it with its assigned id.
func (s *Store) InsertWish(ctx context.Context, user domain.UserIdentity, item domain.WishItem) (domain.WishItem, error) {
	now := time.Now().UTC()
	var id int64
	err := s.queryRowScoped(ctx, "wishes", "insert",
		"INSERT INTO wishes(user_id, icon, title, completed, created_at) VALUES($1, $2, $3, $4, $5) RETURNING id;",
		"INSERT INTO wishes(icon, title, completed, created_at) VALUES($1, $2, $3, $4) RETURNING id;",
		[]any{string(user), item.Icon, item.Title, item.Completed, now},
		[]any{item.Icon, item.Title, item.Completed, now},
		func(row *sql.Row) error { return row.Scan(&id) },
	)
	if err != nil {
		return domain.WishItem{}, err
	}
	item.ID = domain.StoredID(id)
	item.CreatedAt = now
	return item, nil
}

// UpdateWish rewrites a wish in place, including its completed flag.
func (s *Store) UpdateWish(ctx context.Context, user domain.UserIdentity, id int64, item domain.WishItem) error {
	return s.execScoped(ctx, "wishes", "update",
		"UPDATE wishes SET icon=$1, title=$2, completed=$3, user_id=$4 WHERE id=$5;",
		"UPDATE wishes SET icon=$1, title=$2, completed=$3 WHERE id=$4;",
		[]any{item.Icon, item.Title, item.Completed, string(user), id},
		[]any{item.Icon, item.Title, item.Completed, id},
	)
}

// DeleteWish removes a wish. Rows already removed by the other user are
// not an error.
func (s *Store) DeleteWish(ctx context.Context, user domain.UserIdentity, id int64) error {
	metrics.StoreOps.WithLabelValues("wishes", "delete").Inc()
	_, err := s.sql.ExecContext(ctx, "DELETE FROM wishes WHERE id=$1;", id)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("wishes").Inc()
	}
	return err
}
