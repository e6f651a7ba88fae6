package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

// CatalogKind names which shared catalog a CatalogService manages.
type CatalogKind string

const (
	KindQuest  CatalogKind = "quest"
	KindReward CatalogKind = "reward"
)

// CatalogService synchronizes one shared catalog (quests or rewards)
// between local optimistic state and the store. Both users see and edit the
// same list; the store is authoritative on refresh, and items created while
// the store was unreachable live on locally under pending ids until they
// can be re-created.
type CatalogService struct {
	kind    CatalogKind
	repo    domain.CatalogRepository
	history *HistoryService
	ledger  *PointsLedger
	log     *logrus.Logger

	mu    sync.Mutex
	items []domain.CatalogItem
	scope FetchScope
}

// NewCatalogService creates a synchronizer for one catalog. history and
// ledger receive the completion/redemption side effects: quests credit
// points, rewards debit them.
func NewCatalogService(kind CatalogKind, repo domain.CatalogRepository, history *HistoryService, ledger *PointsLedger, log *logrus.Logger) *CatalogService {
	return &CatalogService{kind: kind, repo: repo, history: history, ledger: ledger, log: log}
}

// Items returns the current local view, newest-first.
func (s *CatalogService) Items() []domain.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CatalogItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CatalogService) replaceItems(items []domain.CatalogItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// Refresh replaces the local view with the store's. A failed read leaves
// the prior view untouched; a late response superseded by a newer refresh
// is discarded.
func (s *CatalogService) Refresh(ctx context.Context) error {
	ticket := s.scope.Next()
	items, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return fmt.Errorf("refresh %s catalog: %w", s.kind, err)
	}
	if !s.scope.Current(ticket) {
		return nil
	}
	s.replaceItems(items)
	return nil
}

func validateCatalogItem(item domain.CatalogItem) error {
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if item.Points < 0 {
		return fmt.Errorf("%w: points must not be negative", domain.ErrValidation)
	}
	return nil
}

// Create writes a new item to the shared store and refreshes so the view
// reflects store-assigned identity and ordering. When the write fails the
// item is kept locally under a pending id so the list stays usable; the
// next successful update attempt re-creates it in the store.
func (s *CatalogService) Create(ctx context.Context, user domain.UserIdentity, item domain.CatalogItem) (domain.CatalogItem, error) {
	if !user.Valid() {
		return domain.CatalogItem{}, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	if err := validateCatalogItem(item); err != nil {
		return domain.CatalogItem{}, err
	}
	item.Title = strings.TrimSpace(item.Title)

	created, err := s.repo.InsertCatalog(ctx, user, item)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"catalog": s.kind, "user": user}).
			Warn("create failed, keeping local pending item")
		item.ID = domain.NewPendingID()
		item.CreatedAt = time.Now()
		s.mu.Lock()
		s.items = append([]domain.CatalogItem{item}, s.items...)
		s.mu.Unlock()
		return item, nil
	}

	if err := s.Refresh(ctx); err != nil {
		// The insert landed; fold the returned row in locally.
		s.mu.Lock()
		s.items = append([]domain.CatalogItem{created}, s.items...)
		s.mu.Unlock()
	}
	return created, nil
}

// Update applies the edit locally first, then writes it through. An item
// that was never persisted has no store row, so it is routed to Create.
func (s *CatalogService) Update(ctx context.Context, user domain.UserIdentity, item domain.CatalogItem) (domain.CatalogItem, error) {
	if !user.Valid() {
		return domain.CatalogItem{}, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	if err := validateCatalogItem(item); err != nil {
		return domain.CatalogItem{}, err
	}
	item.Title = strings.TrimSpace(item.Title)

	if !item.ID.Persisted() {
		s.removeLocal(item.ID)
		return s.Create(ctx, user, item)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			break
		}
	}
	s.mu.Unlock()

	if err := s.repo.UpdateCatalog(ctx, user, item.ID.Stored(), item); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"catalog": s.kind, "id": item.ID}).
			Warn("update not persisted, keeping optimistic state")
	}
	return item, nil
}

// Delete removes the item locally, then from the store. Pending items are
// local-only, so their removal never reaches the store.
func (s *CatalogService) Delete(ctx context.Context, user domain.UserIdentity, id domain.ItemID) error {
	if !user.Valid() {
		return fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	s.removeLocal(id)
	if !id.Persisted() {
		return nil
	}
	if err := s.repo.DeleteCatalog(ctx, user, id.Stored()); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"catalog": s.kind, "id": id}).
			Warn("delete not persisted, keeping optimistic state")
	}
	return nil
}

func (s *CatalogService) removeLocal(id domain.ItemID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Complete records a quest completion or reward redemption for user: an
// append-only history entry plus the point delta (credit for quests, debit
// for rewards, clamped at zero by the ledger).
func (s *CatalogService) Complete(ctx context.Context, user domain.UserIdentity, id domain.ItemID) (domain.HistoryEntry, int, error) {
	if !user.Valid() {
		return domain.HistoryEntry{}, 0, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}

	var item *domain.CatalogItem
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			it := s.items[i]
			item = &it
			break
		}
	}
	s.mu.Unlock()
	if item == nil {
		return domain.HistoryEntry{}, s.ledger.Local(user), fmt.Errorf("%w: catalog item %s", domain.ErrNotFound, id)
	}

	delta := item.Points
	if s.kind == KindReward {
		delta = -item.Points
	}
	balance, err := s.ledger.ApplyDelta(ctx, user, delta)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"catalog": s.kind, "user": user}).
			Warn("point delta not persisted, balance reconciles on refresh")
	}

	entry, err := s.history.Append(ctx, user, domain.HistoryEntry{
		Title:      item.Title,
		Points:     item.Points,
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"catalog": s.kind, "user": user}).
			Warn("history entry not persisted")
	}
	return entry, balance, nil
}
