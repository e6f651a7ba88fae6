package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

// PointsLedger applies point deltas to the authoritative stored balance and
// keeps a per-user optimistic copy for immediate display. Deltas are
// read-then-write against the store (the other user's session may have
// moved the value out-of-band), with the clamp to zero enforced at write
// time. On refresh the authoritative value always replaces the local one.
type PointsLedger struct {
	repo domain.PointsRepository
	log  *logrus.Logger

	mu      sync.Mutex
	local   map[domain.UserIdentity]int
	ensured map[domain.UserIdentity]bool
}

// NewPointsLedger creates a ledger backed by the given repository.
func NewPointsLedger(repo domain.PointsRepository, log *logrus.Logger) *PointsLedger {
	return &PointsLedger{
		repo:    repo,
		log:     log,
		local:   make(map[domain.UserIdentity]int),
		ensured: make(map[domain.UserIdentity]bool),
	}
}

func clampBalance(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Local returns the optimistic balance currently shown for the user.
func (l *PointsLedger) Local(user domain.UserIdentity) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.local[user]
}

func (l *PointsLedger) setLocal(user domain.UserIdentity, v int) {
	l.mu.Lock()
	l.local[user] = v
	l.mu.Unlock()
}

// ensure makes sure a balance row exists without resetting a stored value.
// The result is remembered so the row-ensure runs once per user per process.
func (l *PointsLedger) ensure(ctx context.Context, user domain.UserIdentity) error {
	l.mu.Lock()
	done := l.ensured[user]
	l.mu.Unlock()
	if done {
		return nil
	}
	if err := l.repo.EnsureBalance(ctx, user); err != nil {
		return err
	}
	l.mu.Lock()
	l.ensured[user] = true
	l.mu.Unlock()
	return nil
}

// ApplyDelta adds delta to the user's balance, clamping at zero. The local
// optimistic copy is updated first so the UI reacts immediately; the store
// write uses the freshly-read authoritative value, not the local one. The
// returned balance is the one the UI should show. A store failure keeps the
// optimistic value and is returned for logging; it is never fatal.
func (l *PointsLedger) ApplyDelta(ctx context.Context, user domain.UserIdentity, delta int) (int, error) {
	if !user.Valid() {
		return 0, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}

	l.mu.Lock()
	optimistic := clampBalance(l.local[user] + delta)
	l.local[user] = optimistic
	l.mu.Unlock()

	if err := l.ensure(ctx, user); err != nil {
		return optimistic, fmt.Errorf("ensure balance: %w", err)
	}
	current, err := l.repo.Balance(ctx, user)
	if err != nil {
		return optimistic, fmt.Errorf("read balance: %w", err)
	}
	next := clampBalance(current + delta)
	if err := l.repo.SetBalance(ctx, user, next); err != nil {
		return optimistic, fmt.Errorf("write balance: %w", err)
	}

	l.setLocal(user, next)
	return next, nil
}

// Refresh replaces the optimistic balance with the authoritative one.
// On failure the prior local value is retained and returned, so a flaky
// read never visibly erases a previously-good balance.
func (l *PointsLedger) Refresh(ctx context.Context, user domain.UserIdentity) (int, error) {
	if !user.Valid() {
		return 0, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	if err := l.ensure(ctx, user); err != nil {
		return l.Local(user), fmt.Errorf("ensure balance: %w", err)
	}
	current, err := l.repo.Balance(ctx, user)
	if err != nil {
		l.log.WithError(err).WithField("user", user).Warn("balance refresh failed, keeping local value")
		return l.Local(user), fmt.Errorf("read balance: %w", err)
	}
	l.setLocal(user, current)
	return current, nil
}
