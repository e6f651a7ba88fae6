package domain

import "context"

// PointsRepository is the port for the per-user points balance. Balances
// are non-negative integers; callers apply deltas as read-then-write so
// the clamp to zero is enforced against the stored value, which the other
// user's session may have moved in the meantime.
type PointsRepository interface {
	// EnsureBalance creates the balance row with value 0 if the user has
	// none yet. It never resets an existing stored value.
	EnsureBalance(ctx context.Context, user UserIdentity) error
	Balance(ctx context.Context, user UserIdentity) (int, error)
	SetBalance(ctx context.Context, user UserIdentity, points int) error
}
