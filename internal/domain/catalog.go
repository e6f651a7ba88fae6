package domain

import (
	"context"
	"time"
)

// CatalogItem is a shared quest or reward definition. Catalogs have no
// owner: either user may create, edit or delete entries, and both observe
// the same values. Points is the award for completing a quest or the cost
// of redeeming a reward.
type CatalogItem struct {
	ID          ItemID    `json:"id"`
	Title       string    `json:"title"`
	Points      int       `json:"points"`
	Icon        string    `json:"icon"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Pending reports whether the item only exists locally.
func (c CatalogItem) Pending() bool { return !c.ID.Persisted() }

// WishItem is a shared wish-list entry.
type WishItem struct {
	ID        ItemID    `json:"id"`
	Icon      string    `json:"icon"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// CatalogRepository is the port for a shared quest or reward catalog.
// The user argument attributes writes; legacy deployments whose tables
// predate the attribution column are handled inside the adapter (single
// unscoped retry).
type CatalogRepository interface {
	// ListCatalog returns all items newest-first by creation time.
	ListCatalog(ctx context.Context) ([]CatalogItem, error)
	InsertCatalog(ctx context.Context, user UserIdentity, item CatalogItem) (CatalogItem, error)
	UpdateCatalog(ctx context.Context, user UserIdentity, id int64, item CatalogItem) error
	DeleteCatalog(ctx context.Context, user UserIdentity, id int64) error
}

// WishRepository is the port for the shared wish list.
type WishRepository interface {
	ListWishes(ctx context.Context) ([]WishItem, error)
	InsertWish(ctx context.Context, user UserIdentity, item WishItem) (WishItem, error)
	UpdateWish(ctx context.Context, user UserIdentity, id int64, item WishItem) error
	DeleteWish(ctx context.Context, user UserIdentity, id int64) error
}
