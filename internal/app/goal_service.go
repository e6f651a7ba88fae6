package app

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

// Comparison is a day/week/month-over comparison against an earlier sample.
// HasData is false when the series is too short for the requested offset;
// the UI must show that differently from a zero diff.
type Comparison struct {
	Diff    float64 `json:"diff"`
	HasData bool    `json:"hasData"`
}

// GoalSummary is the full derived progress view for one user.
type GoalSummary struct {
	User              domain.UserIdentity   `json:"user"`
	Current           float64               `json:"current"`
	FinalTarget       *float64              `json:"finalTarget"`
	RemainingToFinal  *float64              `json:"remainingToFinal"`
	ActiveGoal        *domain.PeriodGoal    `json:"activeGoal"`
	Baseline          *float64              `json:"baseline"`
	RemainingToPeriod *float64              `json:"remainingToPeriod"`
	ProgressRatio     *float64              `json:"progressRatio"`
	Day               Comparison            `json:"day"`
	Week              Comparison            `json:"week"`
	Month             Comparison            `json:"month"`
	Samples           []domain.WeightSample `json:"samples"`
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RemainingTo computes how much weight is left to lose toward a target,
// floored at zero. ok is false when the target is unset or either value is
// non-finite, which the UI shows as "unset" rather than a numeric zero.
func RemainingTo(current float64, target *float64) (float64, bool) {
	if target == nil || !finite(*target) || !finite(current) {
		return 0, false
	}
	return math.Max(0, current-*target), true
}

// FindBaseline resolves the weight a period goal measures progress from.
// First match wins: an exact sample on the start date; the most recent
// sample strictly before it; the earliest sample within the range; the
// earliest sample strictly after the start date.
func FindBaseline(series *domain.HistorySeries, start, end domain.DateKey) (float64, bool) {
	samples := series.Samples()
	if len(samples) == 0 {
		return 0, false
	}

	// Rule 1: exact sample on the start date.
	for _, s := range samples {
		if s.Date == start {
			return s.Weight, true
		}
	}
	// Rule 2: most recent sample strictly before the start date.
	for i := len(samples) - 1; i >= 0; i-- {
		if samples[i].Date.Before(start) {
			return samples[i].Weight, true
		}
	}
	// Rule 3: earliest sample within [start, end].
	for _, s := range samples {
		if !s.Date.Before(start) && !s.Date.After(end) {
			return s.Weight, true
		}
	}
	// Rule 4: earliest sample strictly after the start date.
	for _, s := range samples {
		if s.Date.After(start) {
			return s.Weight, true
		}
	}
	return 0, false
}

// PeriodProgressRatio reports the fraction of the distance travelled from
// baseline toward target, clamped to [0, 1], regardless of whether the goal
// is loss or gain. A zero-width goal (target == baseline) is binary: 1 when
// the target is met exactly, else 0.
func PeriodProgressRatio(current, baseline, target float64) float64 {
	if !finite(current) || !finite(baseline) || !finite(target) {
		return 0
	}
	if target == baseline {
		if current == target {
			return 1
		}
		return 0
	}
	ratio := (current - baseline) / (target - baseline)
	return math.Min(1, math.Max(0, ratio))
}

// ActivePeriodGoal selects which of a user's period goals to show: the one
// whose range contains today, ties broken by soonest end; with none
// containing today, the goal with the latest end overall.
func ActivePeriodGoal(goals []domain.PeriodGoal, today domain.DateKey) *domain.PeriodGoal {
	var containing *domain.PeriodGoal
	for i := range goals {
		g := &goals[i]
		if !g.Contains(today) {
			continue
		}
		if containing == nil || g.End.Before(containing.End) {
			containing = g
		}
	}
	if containing != nil {
		out := *containing
		return &out
	}

	var latest *domain.PeriodGoal
	for i := range goals {
		g := &goals[i]
		if latest == nil || g.End.After(latest.End) {
			latest = g
		}
	}
	if latest == nil {
		return nil
	}
	out := *latest
	return &out
}

// ActivePeriodGoalAfterSave re-derives the active goal right after a save,
// preferring the just-saved goal on any tie so the view never bounces back
// to a stale goal before the next refresh settles.
func ActivePeriodGoalAfterSave(saved domain.PeriodGoal, goals []domain.PeriodGoal, today domain.DateKey) domain.PeriodGoal {
	if saved.Contains(today) {
		return saved
	}

	candidates := make([]domain.PeriodGoal, 0, len(goals)+1)
	for _, g := range goals {
		if !g.SameRange(saved) {
			candidates = append(candidates, g)
		}
	}

	if picked := ActivePeriodGoal(candidates, today); picked != nil && picked.Contains(today) {
		return *picked
	}

	// Nothing contains today: latest end wins, saved wins ties.
	best := saved
	for _, g := range candidates {
		if g.End.After(best.End) {
			best = g
		}
	}
	return best
}

// Compare diffs the current weight against the sample n positions back.
func Compare(series *domain.HistorySeries, n int) Comparison {
	earlier, ok := series.ValueNDaysBefore(n)
	if !ok || series.Len() == 0 {
		return Comparison{}
	}
	diff := series.Current() - earlier.Weight
	if !finite(diff) {
		return Comparison{}
	}
	return Comparison{Diff: diff, HasData: true}
}

// GoalService computes derived progress metrics from a user's history
// series and goal configuration.
type GoalService struct {
	goals   domain.GoalRepository
	weights domain.WeightRepository
	log     *logrus.Logger
}

// NewGoalService creates a GoalService backed by the given repositories.
func NewGoalService(goals domain.GoalRepository, weights domain.WeightRepository, log *logrus.Logger) *GoalService {
	return &GoalService{goals: goals, weights: weights, log: log}
}

// Summary loads the user's series and goals and derives every displayed
// metric for the given day.
func (s *GoalService) Summary(ctx context.Context, user domain.UserIdentity, today domain.DateKey) (*GoalSummary, error) {
	if !user.Valid() {
		return nil, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}

	samples, err := s.weights.ListWeights(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	series := domain.NewHistorySeries(samples)
	current := series.Current()

	out := &GoalSummary{
		User:    user,
		Current: current,
		Day:     Compare(series, 1),
		Week:    Compare(series, 7),
		Month:   Compare(series, 30),
		Samples: series.Samples(),
	}

	final, err := s.goals.FinalGoal(ctx, user)
	if err != nil {
		s.log.WithError(err).WithField("user", user).Warn("final goal unavailable, leaving unset")
	} else if final != nil {
		out.FinalTarget = final.Target
		if rem, ok := RemainingTo(current, final.Target); ok {
			out.RemainingToFinal = &rem
		}
	}

	periods, err := s.goals.PeriodGoals(ctx, user)
	if err != nil {
		s.log.WithError(err).WithField("user", user).Warn("period goals unavailable, leaving unset")
		return out, nil
	}
	active := ActivePeriodGoal(periods, today)
	if active == nil {
		return out, nil
	}
	out.ActiveGoal = active
	if rem, ok := RemainingTo(current, active.Target); ok {
		out.RemainingToPeriod = &rem
	}
	if baseline, ok := FindBaseline(series, active.Start, active.End); ok {
		out.Baseline = &baseline
		if active.Target != nil && finite(*active.Target) {
			ratio := PeriodProgressRatio(current, baseline, *active.Target)
			out.ProgressRatio = &ratio
		}
	}
	return out, nil
}

// SaveFinalGoal validates and stores the open-ended target weight.
// Last write wins.
func (s *GoalService) SaveFinalGoal(ctx context.Context, user domain.UserIdentity, target float64) error {
	if !user.Valid() {
		return fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	if !finite(target) || target <= 0 {
		return fmt.Errorf("%w: target must be a positive number", domain.ErrValidation)
	}
	return s.goals.SaveFinalGoal(ctx, user, target)
}

// SavePeriodGoal validates and stores a date-ranged goal, then re-derives
// the active goal sequentially after the write so the caller immediately
// observes the saved state.
func (s *GoalService) SavePeriodGoal(ctx context.Context, goal domain.PeriodGoal, today domain.DateKey) (domain.PeriodGoal, error) {
	if !goal.User.Valid() {
		return domain.PeriodGoal{}, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	if !goal.Start.Valid() || !goal.End.Valid() {
		return domain.PeriodGoal{}, fmt.Errorf("%w: invalid goal dates", domain.ErrValidation)
	}
	if goal.End.Before(goal.Start) {
		return domain.PeriodGoal{}, fmt.Errorf("%w: start date after end date", domain.ErrValidation)
	}
	if goal.Target != nil && (!finite(*goal.Target) || *goal.Target <= 0) {
		return domain.PeriodGoal{}, fmt.Errorf("%w: target must be a positive number", domain.ErrValidation)
	}

	if err := s.goals.SavePeriodGoal(ctx, goal); err != nil {
		return domain.PeriodGoal{}, fmt.Errorf("save period goal: %w", err)
	}

	periods, err := s.goals.PeriodGoals(ctx, goal.User)
	if err != nil {
		// The write landed; show the saved goal rather than bouncing back.
		s.log.WithError(err).WithField("user", goal.User).Warn("re-fetch after goal save failed")
		return goal, nil
	}
	return ActivePeriodGoalAfterSave(goal, periods, today), nil
}
