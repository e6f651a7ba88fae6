package domain

import "context"

// WeightSample is a single recorded body weight for one user and day.
// There is at most one sample per (user, date); recording again for the
// same day replaces the weight.
type WeightSample struct {
	Date   DateKey `json:"date"`
	Weight float64 `json:"weight"`
}

// WeightRepository is the port for weight persistence. Listings are
// ascending by date; WeightsInRange is half-open, from inclusive to
// exclusive.
type WeightRepository interface {
	UpsertWeight(ctx context.Context, user UserIdentity, date DateKey, weight float64) error
	ListWeights(ctx context.Context, user UserIdentity) ([]WeightSample, error)
	WeightsInRange(ctx context.Context, user UserIdentity, from, to DateKey) ([]WeightSample, error)
}
