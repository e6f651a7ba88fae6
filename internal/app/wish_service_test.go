package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Soiya59/jijibaba-taijyu/internal/app"
	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
	"github.com/Soiya59/jijibaba-taijyu/pkg/logger"
)

type mockWishRepo struct {
	listFn   func(ctx context.Context) ([]domain.WishItem, error)
	insertFn func(ctx context.Context, user domain.UserIdentity, item domain.WishItem) (domain.WishItem, error)
	updateFn func(ctx context.Context, user domain.UserIdentity, id int64, item domain.WishItem) error
	deleteFn func(ctx context.Context, user domain.UserIdentity, id int64) error
}

func (m *mockWishRepo) ListWishes(ctx context.Context) ([]domain.WishItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockWishRepo) InsertWish(ctx context.Context, user domain.UserIdentity, item domain.WishItem) (domain.WishItem, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, user, item)
	}
	item.ID = domain.StoredID(1)
	return item, nil
}

func (m *mockWishRepo) UpdateWish(ctx context.Context, user domain.UserIdentity, id int64, item domain.WishItem) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user, id, item)
	}
	return nil
}

func (m *mockWishRepo) DeleteWish(ctx context.Context, user domain.UserIdentity, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, user, id)
	}
	return nil
}

func TestWishCreate_FallsBackToPending(t *testing.T) {
	repo := &mockWishRepo{
		insertFn: func(_ context.Context, _ domain.UserIdentity, _ domain.WishItem) (domain.WishItem, error) {
			return domain.WishItem{}, errors.New("store unreachable")
		},
	}
	svc := app.NewWishService(repo, logger.New("error"))

	created, err := svc.Create(context.Background(), domain.UserBaba, domain.WishItem{Title: "おんせん旅行"})
	if err != nil {
		t.Fatalf("degraded create must not fail the UI: %v", err)
	}
	if created.ID.Persisted() {
		t.Fatal("expected a pending id")
	}
	if len(svc.Items()) != 1 {
		t.Fatal("expected the pending wish in the local view")
	}
}

func TestWishToggle_FlipsLocallyAndWritesThrough(t *testing.T) {
	updates := 0
	repo := &mockWishRepo{
		listFn: func(_ context.Context) ([]domain.WishItem, error) {
			return []domain.WishItem{
				{ID: domain.StoredID(3), Title: "おんせん旅行", CreatedAt: time.Now()},
			}, nil
		},
		updateFn: func(_ context.Context, _ domain.UserIdentity, id int64, item domain.WishItem) error {
			updates++
			if id != 3 || !item.Completed {
				t.Fatalf("unexpected write-through: id=%d item=%+v", id, item)
			}
			return nil
		},
	}
	svc := app.NewWishService(repo, logger.New("error"))
	ctx := context.Background()
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	toggled, err := svc.Toggle(ctx, domain.UserJiji, domain.StoredID(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("expected completed after toggle")
	}
	if updates != 1 {
		t.Fatalf("expected one store write, got %d", updates)
	}
}

func TestWishToggle_UnknownWish(t *testing.T) {
	svc := app.NewWishService(&mockWishRepo{}, logger.New("error"))
	if _, err := svc.Toggle(context.Background(), domain.UserJiji, domain.StoredID(9)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestWishToggle_PendingStaysLocal(t *testing.T) {
	updates := 0
	repo := &mockWishRepo{
		insertFn: func(_ context.Context, _ domain.UserIdentity, _ domain.WishItem) (domain.WishItem, error) {
			return domain.WishItem{}, errors.New("store unreachable")
		},
		updateFn: func(_ context.Context, _ domain.UserIdentity, _ int64, _ domain.WishItem) error {
			updates++
			return nil
		},
	}
	svc := app.NewWishService(repo, logger.New("error"))
	ctx := context.Background()

	created, _ := svc.Create(ctx, domain.UserJiji, domain.WishItem{Title: "おすしやさん"})
	toggled, err := svc.Toggle(ctx, domain.UserJiji, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !toggled.Completed || updates != 0 {
		t.Fatalf("pending toggle must stay local: completed=%v updates=%d", toggled.Completed, updates)
	}
}
