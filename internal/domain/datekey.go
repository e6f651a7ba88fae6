package domain

import (
	"fmt"
	"time"
)

// DateKey is a local calendar day in canonical YYYY-MM-DD form. It is the
// join key between weight samples and goal ranges. The fixed-width
// big-endian layout makes lexicographic comparison equivalent to
// chronological comparison.
type DateKey string

const dateKeyLayout = "2006-01-02"

// ParseDateKey validates s and returns it in canonical form.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.ParseInLocation(dateKeyLayout, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return DateKey(t.Format(dateKeyLayout)), nil
}

// DateKeyOf converts an instant to its local calendar day.
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.In(time.Local).Format(dateKeyLayout))
}

// Today returns the current local calendar day.
func Today() DateKey {
	return DateKeyOf(time.Now())
}

// Time returns the midnight instant of the key in local time.
func (k DateKey) Time() (time.Time, error) {
	t, err := time.ParseInLocation(dateKeyLayout, string(k), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, string(k))
	}
	return t, nil
}

// Valid reports whether k is a well-formed calendar day.
func (k DateKey) Valid() bool {
	_, err := k.Time()
	return err == nil
}

// Before reports whether k falls strictly before other.
func (k DateKey) Before(other DateKey) bool { return k < other }

// After reports whether k falls strictly after other.
func (k DateKey) After(other DateKey) bool { return k > other }

// AddDays returns the key n calendar days after k (negative n goes back).
// An invalid key is returned unchanged.
func (k DateKey) AddDays(n int) DateKey {
	t, err := k.Time()
	if err != nil {
		return k
	}
	return DateKeyOf(t.AddDate(0, 0, n))
}
