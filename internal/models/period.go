package models

import (
	"errors"
	"fmt"
	"time"
)

// PeriodLayout is the "YYYY-MM" form periods take outside the process.
const PeriodLayout = "2006-01"

// ErrInvalidPeriod is returned when a period string is not "YYYY-MM".
var ErrInvalidPeriod = errors.New("period must be in YYYY-MM format")

// Period is a calendar month. Month is one-based (time.January == 1).
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod returns the period for year and month, normalising months
// outside 1..12 into neighbouring years.
func NewPeriod(year int, month time.Month) Period {
	idx := year*12 + int(month) - 1
	return Period{Year: floorDiv(idx, 12), Month: time.Month(floorMod(idx, 12) + 1)}
}

// PeriodOf returns the calendar month containing t, in t's location.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod converts a "YYYY-MM" string into a Period.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(PeriodLayout, s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return PeriodOf(t), nil
}

// String formats the period as "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// IsZero reports whether p is the zero Period.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// MonthsSince returns the number of whole months from start to p. The
// result is negative when p precedes start.
func (p Period) MonthsSince(start Period) int {
	return (p.Year-start.Year)*12 + int(p.Month) - int(start.Month)
}

// AddMonths returns the period n months after p.
func (p Period) AddMonths(n int) Period {
	return NewPeriod(p.Year, p.Month+time.Month(n))
}

// Contains reports whether t falls inside the calendar month.
func (p Period) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return t.Year() == p.Year && t.Month() == p.Month
}

// Start returns midnight on the first day of the month in loc.
func (p Period) Start(loc *time.Location) time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
}

// LastDay returns the day-of-month number of the period's final day.
func (p Period) LastDay() int {
	return p.Start(time.UTC).AddDate(0, 1, -1).Day()
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
