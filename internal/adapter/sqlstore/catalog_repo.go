package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
	"github.com/Soiya59/jijibaba-taijyu/internal/metrics"
)

// CatalogRepo serves one shared catalog table (quests or rewards). Reads
// are unscoped because both users see the same catalog; writes record the
// acting user, falling back when the table predates the attribution
// column.
type CatalogRepo struct {
	s     *Store
	table string
}

// ListCatalog returns all items newest-first by creation time.
func (r *CatalogRepo) ListCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	metrics.StoreOps.WithLabelValues(r.table, "list").Inc()
	rows, err := r.s.sql.QueryContext(ctx,
		fmt.Sprintf("SELECT id, title, points, icon, description, created_at FROM %s ORDER BY created_at DESC, id DESC;", r.table))
	if err != nil {
		metrics.StoreErrors.WithLabelValues(r.table).Inc()
		return nil, err
	}
	defer rows.Close()

	var out []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		var id int64
		if err := rows.Scan(&id, &item.Title, &item.Points, &item.Icon, &item.Description, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.ID = domain.StoredID(id)
		out = append(out, item)
	}
	return out, rows.Err()
}

// InsertCatalog stores a new item and returns it with its assigned id.
func (r *CatalogRepo) InsertCatalog(ctx context.Context, user domain.UserIdentity, item domain.CatalogItem) (domain.CatalogItem, error) {
	now := time.Now().UTC()
	var id int64
	err := r.s.queryRowScoped(ctx, r.table, "insert",
		fmt.Sprintf("INSERT INTO %s(user_id, title, points, icon, description, created_at) VALUES($1, $2, $3, $4, $5, $6) RETURNING id;", r.table),
		fmt.Sprintf("INSERT INTO %s(title, points, icon, description, created_at) VALUES($1, $2, $3, $4, $5) RETURNING id;", r.table),
		[]any{string(user), item.Title, item.Points, item.Icon, item.Description, now},
		[]any{item.Title, item.Points, item.Icon, item.Description, now},
		func(row *sql.Row) error { return row.Scan(&id) },
	)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	item.ID = domain.StoredID(id)
	item.CreatedAt = now
	return item, nil
}

// UpdateCatalog rewrites an item in place. The acting user is recorded as
// the last writer where the schema allows.
func (r *CatalogRepo) UpdateCatalog(ctx context.Context, user domain.UserIdentity, id int64, item domain.CatalogItem) error {
	return r.s.execScoped(ctx, r.table, "update",
		fmt.Sprintf("UPDATE %s SET title=$1, points=$2, icon=$3, description=$4, user_id=$5 WHERE id=$6;", r.table),
		fmt.Sprintf("UPDATE %s SET title=$1, points=$2, icon=$3, description=$4 WHERE id=$5;", r.table),
		[]any{item.Title, item.Points, item.Icon, item.Description, string(user), id},
		[]any{item.Title, item.Points, item.Icon, item.Description, id},
	)
}

// DeleteCatalog removes an item. Deleting a row that is already gone is
// not an error; the other user may have removed it first.
func (r *CatalogRepo) DeleteCatalog(ctx context.Context, user domain.UserIdentity, id int64) error {
	metrics.StoreOps.WithLabelValues(r.table, "delete").Inc()
	_, err := r.s.sql.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id=$1;", r.table), id)
	if err != nil {
		metrics.StoreErrors.WithLabelValues(r.table).Inc()
	}
	return err
}
