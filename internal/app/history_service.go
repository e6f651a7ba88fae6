package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

// DefaultHistoryWindow is the fixed display length of activity histories.
const DefaultHistoryWindow = 20

// PaletteEntry is one label/value pair placeholders are derived from.
type PaletteEntry struct {
	Title  string
	Points int
}

// Placeholder palettes cycle to fill short histories. The entries mirror
// the seeded catalogs so a fresh install still shows a plausible list.
var (
	QuestPalette = []PaletteEntry{
		{"さんぽ 30分", 10},
		{"ストレッチ", 5},
		{"らじお体操", 5},
		{"かいだん 10回", 15},
	}
	RewardPalette = []PaletteEntry{
		{"おやつ", 20},
		{"おでかけ", 50},
		{"おすし", 100},
	}
)

// CapAndPad returns exactly target entries, newest-first: the most recent
// real entries first, then synthesized placeholders cycling through the
// palette, each timestamped strictly older than the oldest real entry so
// ordering stays stable. Placeholders are tagged and never persisted.
func CapAndPad(entries []domain.HistoryEntry, target int, palette []PaletteEntry) []domain.HistoryEntry {
	if target <= 0 || len(palette) == 0 {
		return nil
	}

	out := make([]domain.HistoryEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if len(out) >= target {
		return out[:target]
	}

	oldest := time.Now()
	if len(out) > 0 {
		oldest = out[len(out)-1].OccurredAt
	}
	for i := 0; len(out) < target; i++ {
		p := palette[i%len(palette)]
		out = append(out, domain.HistoryEntry{
			ID:          domain.NewPendingID(),
			Title:       p.Title,
			Points:      p.Points,
			OccurredAt:  oldest.Add(-time.Duration(i+1) * 24 * time.Hour),
			Placeholder: true,
		})
	}
	return out
}

// HistoryService serves one per-user activity log (quest completions or
// reward redemptions) capped and padded to the display window.
type HistoryService struct {
	repo    domain.HistoryRepository
	window  int
	palette []PaletteEntry
}

// NewHistoryService creates a HistoryService over one log. window <= 0
// falls back to the default display length.
func NewHistoryService(repo domain.HistoryRepository, window int, palette []PaletteEntry) *HistoryService {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &HistoryService{repo: repo, window: window, palette: palette}
}

// Append persists one log entry for the user.
func (s *HistoryService) Append(ctx context.Context, user domain.UserIdentity, entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	if !user.Valid() {
		return domain.HistoryEntry{}, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}
	stored, err := s.repo.AppendHistory(ctx, user, entry)
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("append history: %w", err)
	}
	return stored, nil
}

// Window returns the user's display window: newest real entries first,
// padded with placeholders to the fixed length. A read failure is returned
// so the caller can keep showing its prior state.
func (s *HistoryService) Window(ctx context.Context, user domain.UserIdentity) ([]domain.HistoryEntry, error) {
	if !user.Valid() {
		return nil, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	entries, err := s.repo.RecentHistory(ctx, user, s.window)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return CapAndPad(entries, s.window, s.palette), nil
}
