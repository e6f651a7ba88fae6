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

// WishService synchronizes the shared wish list, with the same optimistic
// local state and pending-id semantics as the catalogs.
type WishService struct {
	repo domain.WishRepository
	log  *logrus.Logger

	mu    sync.Mutex
	items []domain.WishItem
	scope FetchScope
}

// NewWishService creates a synchronizer for the shared wish list.
func NewWishService(repo domain.WishRepository, log *logrus.Logger) *WishService {
	return &WishService{repo: repo, log: log}
}

// Items returns the current local view, newest-first.
func (s *WishService) Items() []domain.WishItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WishItem, len(s.items))
	copy(out, s.items)
	return out
}

// Refresh replaces the local view with the store's; a failed read leaves
// the prior view untouched and superseded responses are discarded.
func (s *WishService) Refresh(ctx context.Context) error {
	ticket := s.scope.Next()
	items, err := s.repo.ListWishes(ctx)
	if err != nil {
		return fmt.Errorf("refresh wishes: %w", err)
	}
	if !s.scope.Current(ticket) {
		return nil
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Create writes a new wish and refreshes; on store failure the wish is kept
// locally under a pending id.
func (s *WishService) Create(ctx context.Context, user domain.UserIdentity, item domain.WishItem) (domain.WishItem, error) {
	if !user.Valid() {
		return domain.WishItem{}, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	if strings.TrimSpace(item.Title) == "" {
		return domain.WishItem{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	item.Title = strings.TrimSpace(item.Title)

	created, err := s.repo.InsertWish(ctx, user, item)
	if err != nil {
		s.log.WithError(err).WithField("user", user).Warn("wish create failed, keeping local pending item")
		item.ID = domain.NewPendingID()
		item.CreatedAt = time.Now()
		s.mu.Lock()
		s.items = append([]domain.WishItem{item}, s.items...)
		s.mu.Unlock()
		return item, nil
	}

	if err := s.Refresh(ctx); err != nil {
		s.mu.Lock()
		s.items = append([]domain.WishItem{created}, s.items...)
		s.mu.Unlock()
	}
	return created, nil
}

// Update applies the edit optimistically, then writes through; pending
// items are routed to Create since the store has no row for them.
func (s *WishService) Update(ctx context.Context, user domain.UserIdentity, item domain.WishItem) (domain.WishItem, error) {
	if !user.Valid() {
		return domain.WishItem{}, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	if strings.TrimSpace(item.Title) == "" {
		return domain.WishItem{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
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

	if err := s.repo.UpdateWish(ctx, user, item.ID.Stored(), item); err != nil {
		s.log.WithError(err).WithField("id", item.ID).Warn("wish update not persisted, keeping optimistic state")
	}
	return item, nil
}

// Toggle flips a wish's completed flag.
func (s *WishService) Toggle(ctx context.Context, user domain.UserIdentity, id domain.ItemID) (domain.WishItem, error) {
	s.mu.Lock()
	var found *domain.WishItem
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Completed = !s.items[i].Completed
			it := s.items[i]
			found = &it
			break
		}
	}
	s.mu.Unlock()
	if found == nil {
		return domain.WishItem{}, fmt.Errorf("%w: wish %s", domain.ErrNotFound, id)
	}
	if !id.Persisted() {
		return *found, nil
	}
	if err := s.repo.UpdateWish(ctx, user, id.Stored(), *found); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("wish toggle not persisted, keeping optimistic state")
	}
	return *found, nil
}

// Delete removes the wish locally, then from the store.
func (s *WishService) Delete(ctx context.Context, user domain.UserIdentity, id domain.ItemID) error {
	if !user.Valid() {
		return fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	s.removeLocal(id)
	if !id.Persisted() {
		return nil
	}
	if err := s.repo.DeleteWish(ctx, user, id.Stored()); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("wish delete not persisted, keeping optimistic state")
	}
	return nil
}

func (s *WishService) removeLocal(id domain.ItemID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}
