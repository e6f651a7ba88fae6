package domain

import (
	"fmt"
	"math"
	"sort"
)

// HistorySeries is an ordered, deduplicated-by-date collection of weight
// samples for one user. Samples are kept ascending by date; comparisons use
// positional offsets from the end of the series rather than wall-clock day
// arithmetic, because gaps between recorded days are allowed.
type HistorySeries struct {
	samples []WeightSample
}

// NewHistorySeries builds a series from samples in any order. Duplicate
// dates collapse to the last occurrence.
func NewHistorySeries(samples []WeightSample) *HistorySeries {
	s := &HistorySeries{}
	for _, sm := range samples {
		_ = s.Upsert(sm.Date, sm.Weight)
	}
	return s
}

// Upsert inserts a sample, or replaces the weight when one already exists
// for the date. The weight must be a positive finite number.
func (s *HistorySeries) Upsert(date DateKey, weight float64) error {
	if !date.Valid() {
		return fmt.Errorf("%w: invalid date %q", ErrValidation, string(date))
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return fmt.Errorf("%w: weight must be a positive number", ErrValidation)
	}

	i := sort.Search(len(s.samples), func(i int) bool {
		return !s.samples[i].Date.Before(date)
	})
	if i < len(s.samples) && s.samples[i].Date == date {
		s.samples[i].Weight = weight
		return nil
	}
	s.samples = append(s.samples, WeightSample{})
	copy(s.samples[i+1:], s.samples[i:])
	s.samples[i] = WeightSample{Date: date, Weight: weight}
	return nil
}

// Samples returns a copy of the samples sorted ascending by date.
func (s *HistorySeries) Samples() []WeightSample {
	out := make([]WeightSample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Len returns the number of distinct recorded days.
func (s *HistorySeries) Len() int {
	return len(s.samples)
}

// Current returns the chronologically last sample's weight, or 0 when the
// series is empty.
func (s *HistorySeries) Current() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	return s.samples[len(s.samples)-1].Weight
}

// ValueNDaysBefore returns the sample n positions before the
// chronologically last one. ok is false when the series holds fewer than
// n+1 samples; callers must treat that as "no data", not zero.
func (s *HistorySeries) ValueNDaysBefore(n int) (WeightSample, bool) {
	if n < 0 {
		return WeightSample{}, false
	}
	i := len(s.samples) - 1 - n
	if i < 0 {
		return WeightSample{}, false
	}
	return s.samples[i], true
}
