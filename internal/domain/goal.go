package domain

import "context"

// FinalGoal is a user's open-ended target weight. A nil Target means the
// goal is unset, which the UI shows differently from a numeric zero.
type FinalGoal struct {
	User   UserIdentity `json:"user"`
	Target *float64     `json:"target"`
}

// PeriodGoal is a target weight bound to an explicit date range.
// Start <= End always holds for persisted goals; the uniqueness key is
// (user, start, end), so saving the same range again updates the target
// while a different range creates a new goal.
type PeriodGoal struct {
	User   UserIdentity `json:"user"`
	Start  DateKey      `json:"start"`
	End    DateKey      `json:"end"`
	Target *float64     `json:"target"`
}

// Contains reports whether day falls within the goal's inclusive range.
func (g PeriodGoal) Contains(day DateKey) bool {
	return !day.Before(g.Start) && !day.After(g.End)
}

// SameRange reports whether two goals share the uniqueness key.
func (g PeriodGoal) SameRange(other PeriodGoal) bool {
	return g.User == other.User && g.Start == other.Start && g.End == other.End
}

// GoalRepository is the port for goal persistence.
type GoalRepository interface {
	FinalGoal(ctx context.Context, user UserIdentity) (*FinalGoal, error)
	SaveFinalGoal(ctx context.Context, user UserIdentity, target float64) error
	PeriodGoals(ctx context.Context, user UserIdentity) ([]PeriodGoal, error)
	SavePeriodGoal(ctx context.Context, goal PeriodGoal) error
}
