package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
	"github.com/Soiya59/jijibaba-taijyu/internal/metrics"
)

// WeightService records daily weights and grants the record bonus.
type WeightService struct {
	repo   domain.WeightRepository
	ledger *PointsLedger
	bonus  int
	log    *logrus.Logger
}

// NewWeightService creates a WeightService. bonus is the number of points
// granted per record call.
func NewWeightService(repo domain.WeightRepository, ledger *PointsLedger, bonus int, log *logrus.Logger) *WeightService {
	return &WeightService{repo: repo, ledger: ledger, bonus: bonus, log: log}
}

// Record validates and upserts a weight for (user, date); recording twice
// for the same date replaces the weight rather than appending. The record
// bonus is applied once per call, deliberately not deduplicated by date.
// Returns the refreshed series and the balance to display.
func (s *WeightService) Record(ctx context.Context, user domain.UserIdentity, date domain.DateKey, weight float64) (*domain.HistorySeries, int, error) {
	if !user.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	if !date.Valid() {
		return nil, 0, fmt.Errorf("%w: invalid date %q", domain.ErrValidation, string(date))
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return nil, 0, fmt.Errorf("%w: weight must be a positive number", domain.ErrValidation)
	}

	if err := s.repo.UpsertWeight(ctx, user, date, weight); err != nil {
		return nil, s.ledger.Local(user), fmt.Errorf("upsert weight: %w", err)
	}

	balance, err := s.ledger.ApplyDelta(ctx, user, s.bonus)
	if err != nil {
		// The weight itself landed; the bonus reconciles on the next refresh.
		s.log.WithError(err).WithField("user", user).Warn("record bonus not persisted")
	} else {
		metrics.RecordBonuses.Inc()
	}

	series, err := s.SeriesFor(ctx, user)
	if err != nil {
		return nil, balance, err
	}
	return series, balance, nil
}

// SeriesFor loads the user's full history series, ascending by date.
func (s *WeightService) SeriesFor(ctx context.Context, user domain.UserIdentity) (*domain.HistorySeries, error) {
	if !user.Valid() {
		return nil, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	samples, err := s.repo.ListWeights(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	return domain.NewHistorySeries(samples), nil
}

// Month loads the samples within the calendar month containing day.
func (s *WeightService) Month(ctx context.Context, user domain.UserIdentity, day domain.DateKey) ([]domain.WeightSample, error) {
	if !user.Valid() {
		return nil, fmt.Errorf("%w: unknown user", domain.ErrValidation)
	}
	t, err := day.Time()
	if err != nil {
		return nil, err
	}
	from := domain.DateKeyOf(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()))
	to := domain.DateKeyOf(time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location()))
	samples, err := s.repo.WeightsInRange(ctx, user, from, to)
	if err != nil {
		return nil, fmt.Errorf("load month weights: %w", err)
	}
	return samples, nil
}
