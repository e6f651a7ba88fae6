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

type mockCatalogRepo struct {
	listFn   func(ctx context.Context) ([]domain.CatalogItem, error)
	insertFn func(ctx context.Context, user domain.UserIdentity, item domain.CatalogItem) (domain.CatalogItem, error)
	updateFn func(ctx context.Context, user domain.UserIdentity, id int64, item domain.CatalogItem) error
	deleteFn func(ctx context.Context, user domain.UserIdentity, id int64) error
}

func (m *mockCatalogRepo) ListCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCatalogRepo) InsertCatalog(ctx context.Context, user domain.UserIdentity, item domain.CatalogItem) (domain.CatalogItem, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, user, item)
	}
	item.ID = domain.StoredID(1)
	return item, nil
}

func (m *mockCatalogRepo) UpdateCatalog(ctx context.Context, user domain.UserIdentity, id int64, item domain.CatalogItem) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user, id, item)
	}
	return nil
}

func (m *mockCatalogRepo) DeleteCatalog(ctx context.Context, user domain.UserIdentity, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, user, id)
	}
	return nil
}

type mockHistoryRepo struct {
	appendFn func(ctx context.Context, user domain.UserIdentity, entry domain.HistoryEntry) (domain.HistoryEntry, error)
	recentFn func(ctx context.Context, user domain.UserIdentity, limit int) ([]domain.HistoryEntry, error)
}

func (m *mockHistoryRepo) AppendHistory(ctx context.Context, user domain.UserIdentity, entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	if m.appendFn != nil {
		return m.appendFn(ctx, user, entry)
	}
	entry.ID = domain.StoredID(1)
	return entry, nil
}

func (m *mockHistoryRepo) RecentHistory(ctx context.Context, user domain.UserIdentity, limit int) ([]domain.HistoryEntry, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, user, limit)
	}
	return nil, nil
}

func newQuestService(repo domain.CatalogRepository, points domain.PointsRepository, hist domain.HistoryRepository) (*app.CatalogService, *app.PointsLedger) {
	log := logger.New("error")
	ledger := app.NewPointsLedger(points, log)
	histSvc := app.NewHistoryService(hist, 20, app.QuestPalette)
	return app.NewCatalogService(app.KindQuest, repo, histSvc, ledger, log), ledger
}

func TestCatalogCreate_FallsBackToPending(t *testing.T) {
	repo := &mockCatalogRepo{
		insertFn: func(_ context.Context, _ domain.UserIdentity, _ domain.CatalogItem) (domain.CatalogItem, error) {
			return domain.CatalogItem{}, errors.New("store unreachable")
		},
	}
	svc, _ := newQuestService(repo, newStorePoints(0), &mockHistoryRepo{})

	created, err := svc.Create(context.Background(), domain.UserJiji, domain.CatalogItem{Title: "さんぽ", Points: 10})
	if err != nil {
		t.Fatalf("degraded create must not fail the UI: %v", err)
	}
	if created.ID.Persisted() {
		t.Fatal("expected a pending id")
	}
	items := svc.Items()
	if len(items) != 1 || items[0].Title != "さんぽ" {
		t.Fatalf("expected the pending item in the local view, got %+v", items)
	}
}

func TestCatalogUpdate_PendingRoutesToCreate(t *testing.T) {
	inserts := 0
	updates := 0
	repo := &mockCatalogRepo{
		insertFn: func(_ context.Context, _ domain.UserIdentity, item domain.CatalogItem) (domain.CatalogItem, error) {
			inserts++
			item.ID = domain.StoredID(7)
			item.CreatedAt = time.Now()
			return item, nil
		},
		updateFn: func(_ context.Context, _ domain.UserIdentity, _ int64, _ domain.CatalogItem) error {
			updates++
			return nil
		},
	}
	svc, _ := newQuestService(repo, newStorePoints(0), &mockHistoryRepo{})

	pending := domain.CatalogItem{ID: domain.NewPendingID(), Title: "ストレッチ", Points: 5}
	got, err := svc.Update(context.Background(), domain.UserBaba, pending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updates != 0 {
		t.Fatalf("pending item must not hit update, got %d update calls", updates)
	}
	if inserts != 1 {
		t.Fatalf("expected exactly one insert, got %d", inserts)
	}
	if !got.ID.Persisted() || got.ID.Stored() != 7 {
		t.Fatalf("expected store-assigned id 7, got %v", got.ID)
	}
}

func TestCatalogDelete_PendingNeverHitsStore(t *testing.T) {
	deletes := 0
	repo := &mockCatalogRepo{
		insertFn: func(_ context.Context, _ domain.UserIdentity, _ domain.CatalogItem) (domain.CatalogItem, error) {
			return domain.CatalogItem{}, errors.New("store unreachable")
		},
		deleteFn: func(_ context.Context, _ domain.UserIdentity, _ int64) error {
			deletes++
			return nil
		},
	}
	svc, _ := newQuestService(repo, newStorePoints(0), &mockHistoryRepo{})

	created, _ := svc.Create(context.Background(), domain.UserJiji, domain.CatalogItem{Title: "らじお体操", Points: 5})
	if err := svc.Delete(context.Background(), domain.UserJiji, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletes != 0 {
		t.Fatal("pending delete must stay local")
	}
	if len(svc.Items()) != 0 {
		t.Fatal("expected empty local view")
	}
}

func TestCatalogRefresh_FailureKeepsPriorView(t *testing.T) {
	healthy := true
	repo := &mockCatalogRepo{
		listFn: func(_ context.Context) ([]domain.CatalogItem, error) {
			if !healthy {
				return nil, errors.New("db down")
			}
			return []domain.CatalogItem{
				{ID: domain.StoredID(1), Title: "さんぽ", Points: 10, CreatedAt: time.Now()},
			}, nil
		},
	}
	svc, _ := newQuestService(repo, newStorePoints(0), &mockHistoryRepo{})
	ctx := context.Background()

	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	healthy = false
	if err := svc.Refresh(ctx); err == nil {
		t.Fatal("expected error")
	}
	if len(svc.Items()) != 1 {
		t.Fatal("failed refresh must not erase the prior view")
	}
}

func TestCatalogItemsNewestFirst(t *testing.T) {
	now := time.Now()
	repo := &mockCatalogRepo{
		listFn: func(_ context.Context) ([]domain.CatalogItem, error) {
			return []domain.CatalogItem{
				{ID: domain.StoredID(1), Title: "old", Points: 5, CreatedAt: now.Add(-2 * time.Hour)},
				{ID: domain.StoredID(2), Title: "new", Points: 5, CreatedAt: now},
				{ID: domain.StoredID(3), Title: "mid", Points: 5, CreatedAt: now.Add(-time.Hour)},
			}, nil
		},
	}
	svc, _ := newQuestService(repo, newStorePoints(0), &mockHistoryRepo{})
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := svc.Items()
	if items[0].Title != "new" || items[1].Title != "mid" || items[2].Title != "old" {
		t.Fatalf("expected newest-first ordering, got %+v", items)
	}
}

func TestQuestComplete_CreditsPoints(t *testing.T) {
	repo := &mockCatalogRepo{
		listFn: func(_ context.Context) ([]domain.CatalogItem, error) {
			return []domain.CatalogItem{
				{ID: domain.StoredID(1), Title: "さんぽ 30分", Points: 10, CreatedAt: time.Now()},
			}, nil
		},
	}
	var appended []domain.HistoryEntry
	hist := &mockHistoryRepo{
		appendFn: func(_ context.Context, _ domain.UserIdentity, e domain.HistoryEntry) (domain.HistoryEntry, error) {
			e.ID = domain.StoredID(int64(len(appended) + 1))
			appended = append(appended, e)
			return e, nil
		},
	}
	svc, _ := newQuestService(repo, newStorePoints(0), hist)
	ctx := context.Background()
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, balance, err := svc.Complete(ctx, domain.UserJiji, domain.StoredID(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 10 {
		t.Fatalf("expected 10 points, got %d", balance)
	}
	if entry.Title != "さんぽ 30分" || entry.Points != 10 {
		t.Fatalf("unexpected history entry: %+v", entry)
	}
	if len(appended) != 1 {
		t.Fatalf("expected one history append, got %d", len(appended))
	}
}

func TestRewardRedeem_DebitsAndClamps(t *testing.T) {
	repo := &mockCatalogRepo{
		listFn: func(_ context.Context) ([]domain.CatalogItem, error) {
			return []domain.CatalogItem{
				{ID: domain.StoredID(1), Title: "おやつ", Points: 20, CreatedAt: time.Now()},
			}, nil
		},
	}
	log := logger.New("error")
	points := newStorePoints(15)
	ledger := app.NewPointsLedger(points, log)
	histSvc := app.NewHistoryService(&mockHistoryRepo{}, 20, app.RewardPalette)
	svc := app.NewCatalogService(app.KindReward, repo, histSvc, ledger, log)
	ctx := context.Background()
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, balance, err := svc.Complete(ctx, domain.UserBaba, domain.StoredID(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 15 - 20 clamps to zero instead of going negative.
	if balance != 0 {
		t.Fatalf("expected clamped balance 0, got %d", balance)
	}
	if points.balance != 0 {
		t.Fatalf("expected stored balance 0, got %d", points.balance)
	}
}

func TestComplete_UnknownItem(t *testing.T) {
	svc, _ := newQuestService(&mockCatalogRepo{}, newStorePoints(0), &mockHistoryRepo{})
	if _, _, err := svc.Complete(context.Background(), domain.UserJiji, domain.StoredID(99)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCatalogCreate_Validation(t *testing.T) {
	svc, _ := newQuestService(&mockCatalogRepo{}, newStorePoints(0), &mockHistoryRepo{})
	if _, err := svc.Create(context.Background(), domain.UserJiji, domain.CatalogItem{Title: "   ", Points: 3}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for blank title, got %v", err)
	}
	if _, err := svc.Create(context.Background(), domain.UserJiji, domain.CatalogItem{Title: "x", Points: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for negative points, got %v", err)
	}
}
