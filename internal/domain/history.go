package domain

import (
	"context"
	"time"
)

// HistoryEntry is one per-user activity log record: a completed quest or a
// redeemed reward. Entries are append-only. Placeholder entries exist only
// to pad the display window to a fixed length and are never persisted.
type HistoryEntry struct {
	ID          ItemID    `json:"id"`
	Title       string    `json:"title"`
	Points      int       `json:"points"`
	OccurredAt  time.Time `json:"occurredAt"`
	Placeholder bool      `json:"placeholder,omitempty"`
}

// HistoryRepository is the port for one per-user activity log (quest
// completions or reward redemptions, one instance each).
type HistoryRepository interface {
	AppendHistory(ctx context.Context, user UserIdentity, entry HistoryEntry) (HistoryEntry, error)
	// RecentHistory returns up to limit entries newest-first.
	RecentHistory(ctx context.Context, user UserIdentity, limit int) ([]HistoryEntry, error)
}
