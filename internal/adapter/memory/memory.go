// Package memory implements the domain repositories in process memory.
// It backs tests and the degraded mode the app falls into when no
// database is reachable.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

// DB implements every repository interface over mutex-guarded maps.
type DB struct {
	mu      sync.Mutex
	weights map[domain.UserIdentity]map[domain.DateKey]float64
	points  map[domain.UserIdentity]int
	finals  map[domain.UserIdentity]*float64
	periods map[domain.UserIdentity][]domain.PeriodGoal

	quests  []domain.CatalogItem
	rewards []domain.CatalogItem
	wishes  []domain.WishItem

	questHist  map[domain.UserIdentity][]domain.HistoryEntry
	rewardHist map[domain.UserIdentity][]domain.HistoryEntry

	idCounter int64
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		weights:    make(map[domain.UserIdentity]map[domain.DateKey]float64),
		points:     make(map[domain.UserIdentity]int),
		finals:     make(map[domain.UserIdentity]*float64),
		periods:    make(map[domain.UserIdentity][]domain.PeriodGoal),
		questHist:  make(map[domain.UserIdentity][]domain.HistoryEntry),
		rewardHist: make(map[domain.UserIdentity][]domain.HistoryEntry),
	}
}

// Ensure interfaces are met.
var _ domain.WeightRepository = (*DB)(nil)
var _ domain.GoalRepository = (*DB)(nil)
var _ domain.PointsRepository = (*DB)(nil)
var _ domain.WishRepository = (*DB)(nil)
var _ domain.CatalogRepository = (*CatalogRepo)(nil)
var _ domain.HistoryRepository = (*HistoryRepo)(nil)

func (db *DB) nextID() int64 {
	db.idCounter++
	return db.idCounter
}

// --- WeightRepository ---

// UpsertWeight writes the user's weight for one day, replacing any
// earlier value.
func (db *DB) UpsertWeight(ctx context.Context, user domain.UserIdentity, date domain.DateKey, weight float64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	days := db.weights[user]
	if days == nil {
		days = make(map[domain.DateKey]float64)
		db.weights[user] = days
	}
	days[date] = weight
	return nil
}

// ListWeights returns the user's samples in ascending date order.
func (db *DB) ListWeights(ctx context.Context, user domain.UserIdentity) ([]domain.WeightSample, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.WeightSample, 0, len(db.weights[user]))
	for day, w := range db.weights[user] {
		out = append(out, domain.WeightSample{Date: day, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// WeightsInRange returns samples with from <= day < to, ascending.
func (db *DB) WeightsInRange(ctx context.Context, user domain.UserIdentity, from, to domain.DateKey) ([]domain.WeightSample, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.WeightSample
	for day, w := range db.weights[user] {
		if !day.Before(from) && day.Before(to) {
			out = append(out, domain.WeightSample{Date: day, Weight: w})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// --- PointsRepository ---

// EnsureBalance creates a zero balance if the user has none yet.
func (db *DB) EnsureBalance(ctx context.Context, user domain.UserIdentity) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.points[user]; !ok {
		db.points[user] = 0
	}
	return nil
}

// Balance returns the user's stored point total.
func (db *DB) Balance(ctx context.Context, user domain.UserIdentity) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.points[user], nil
}

// SetBalance stores the user's point total.
func (db *DB) SetBalance(ctx context.Context, user domain.UserIdentity, points int) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.points[user] = points
	return nil
}

// --- GoalRepository ---

// FinalGoal returns the user's open-ended target, nil Target when unset.
func (db *DB) FinalGoal(ctx context.Context, user domain.UserIdentity) (*domain.FinalGoal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	goal := &domain.FinalGoal{User: user}
	if t := db.finals[user]; t != nil {
		v := *t
		goal.Target = &v
	}
	return goal, nil
}

// SaveFinalGoal stores the open-ended target. Last write wins.
func (db *DB) SaveFinalGoal(ctx context.Context, user domain.UserIdentity, target float64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.finals[user] = &target
	return nil
}

// PeriodGoals returns all of the user's date-ranged goals.
func (db *DB) PeriodGoals(ctx context.Context, user domain.UserIdentity) ([]domain.PeriodGoal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.PeriodGoal, len(db.periods[user]))
	copy(out, db.periods[user])
	return out, nil
}

// SavePeriodGoal upserts on the (user, start, end) key.
func (db *DB) SavePeriodGoal(ctx context.Context, goal domain.PeriodGoal) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	goals := db.periods[goal.User]
	for i, g := range goals {
		if g.SameRange(goal) {
			goals[i] = goal
			return nil
		}
	}
	db.periods[goal.User] = append(goals, goal)
	return nil
}

// --- CatalogRepository ---

// CatalogRepo serves one shared catalog held in the database.
type CatalogRepo struct {
	db    *DB
	items *[]domain.CatalogItem
}

// Quests returns the shared quest catalog repository.
func (db *DB) Quests() *CatalogRepo { return &CatalogRepo{db: db, items: &db.quests} }

// Rewards returns the shared reward catalog repository.
func (db *DB) Rewards() *CatalogRepo { return &CatalogRepo{db: db, items: &db.rewards} }

// ListCatalog returns all items newest-first.
func (r *CatalogRepo) ListCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.CatalogItem, len(*r.items))
	copy(out, *r.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// InsertCatalog stores a new item and returns it with its assigned id.
func (r *CatalogRepo) InsertCatalog(ctx context.Context, user domain.UserIdentity, item domain.CatalogItem) (domain.CatalogItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	item.ID = domain.StoredID(r.db.nextID())
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	*r.items = append(*r.items, item)
	return item, nil
}

// UpdateCatalog rewrites an item in place.
func (r *CatalogRepo) UpdateCatalog(ctx context.Context, user domain.UserIdentity, id int64, item domain.CatalogItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, existing := range *r.items {
		if existing.ID.Stored() == id {
			item.ID = existing.ID
			item.CreatedAt = existing.CreatedAt
			(*r.items)[i] = item
			return nil
		}
	}
	return fmt.Errorf("%w: catalog item %d", domain.ErrNotFound, id)
}

// DeleteCatalog removes an item. Already-gone rows are not an error.
func (r *CatalogRepo) DeleteCatalog(ctx context.Context, user domain.UserIdentity, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, existing := range *r.items {
		if existing.ID.Stored() == id {
			*r.items = append((*r.items)[:i], (*r.items)[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- WishRepository ---

// ListWishes returns the shared wish list newest-first.
func (db *DB) ListWishes(ctx context.Context) ([]domain.WishItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.WishItem, len(db.wishes))
	copy(out, db.wishes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// InsertWish stores a new wish and returns it with its assigned id.
func (db *DB) InsertWish(ctx context.Context, user domain.UserIdentity, item domain.WishItem) (domain.WishItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	item.ID = domain.StoredID(db.nextID())
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	db.wishes = append(db.wishes, item)
	return item, nil
}

// UpdateWish rewrites a wish in place, including its completed flag.
func (db *DB) UpdateWish(ctx context.Context, user domain.UserIdentity, id int64, item domain.WishItem) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, existing := range db.wishes {
		if existing.ID.Stored() == id {
			item.ID = existing.ID
			item.CreatedAt = existing.CreatedAt
			db.wishes[i] = item
			return nil
		}
	}
	return fmt.Errorf("%w: wish %d", domain.ErrNotFound, id)
}

// DeleteWish removes a wish. Already-gone rows are not an error.
func (db *DB) DeleteWish(ctx context.Context, user domain.UserIdentity, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, existing := range db.wishes {
		if existing.ID.Stored() == id {
			db.wishes = append(db.wishes[:i], db.wishes[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- HistoryRepository ---

// HistoryRepo serves one per-user activity log.
type HistoryRepo struct {
	db   *DB
	logs map[domain.UserIdentity][]domain.HistoryEntry
}

// QuestHistory returns the quest completion log repository.
func (db *DB) QuestHistory() *HistoryRepo { return &HistoryRepo{db: db, logs: db.questHist} }

// RewardHistory returns the reward redemption log repository.
func (db *DB) RewardHistory() *HistoryRepo { return &HistoryRepo{db: db, logs: db.rewardHist} }

// AppendHistory stores one log entry and returns it with its assigned id.
func (r *HistoryRepo) AppendHistory(ctx context.Context, user domain.UserIdentity, entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	entry.ID = domain.StoredID(r.db.nextID())
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	r.logs[user] = append(r.logs[user], entry)
	return entry, nil
}

// RecentHistory returns up to limit entries newest-first.
func (r *HistoryRepo) RecentHistory(ctx context.Context, user domain.UserIdentity, limit int) ([]domain.HistoryEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.HistoryEntry, len(r.logs[user]))
	copy(out, r.logs[user])
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
