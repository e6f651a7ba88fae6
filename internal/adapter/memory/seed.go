package memory

import (
	"time"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

// NewSeeded creates an in-memory database pre-filled with the default
// household catalogs, so degraded mode still presents a usable app.
func NewSeeded() *DB {
	db := New()
	now := time.Now().UTC()

	quests := []struct {
		title  string
		points int
		icon   string
	}{
		{"さんぽ 30分", 10, "🚶"},
		{"ストレッチ", 5, "🤸"},
		{"らじお体操", 5, "📻"},
		{"かいだん 10回", 15, "🪜"},
	}
	for i, q := range quests {
		db.quests = append(db.quests, domain.CatalogItem{
			ID:        domain.StoredID(db.nextID()),
			Title:     q.title,
			Points:    q.points,
			Icon:      q.icon,
			CreatedAt: now.Add(-time.Duration(len(quests)-i) * time.Minute),
		})
	}

	rewards := []struct {
		title  string
		points int
		icon   string
	}{
		{"おやつ", 20, "🍡"},
		{"おでかけ", 50, "🚌"},
		{"おすし", 100, "🍣"},
	}
	for i, r := range rewards {
		db.rewards = append(db.rewards, domain.CatalogItem{
			ID:        domain.StoredID(db.nextID()),
			Title:     r.title,
			Points:    r.points,
			Icon:      r.icon,
			CreatedAt: now.Add(-time.Duration(len(rewards)-i) * time.Minute),
		})
	}

	db.wishes = append(db.wishes, domain.WishItem{
		ID:        domain.StoredID(db.nextID()),
		Icon:      "♨️",
		Title:     "おんせん旅行",
		CreatedAt: now,
	})
	return db
}
