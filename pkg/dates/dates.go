package dates

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Format is the wire and storage format for calendar dates.
const Format = "2006-01-02"

// DateOnly represents a calendar date without a time-of-day component.
// All ranges built from DateOnly values are inclusive on both ends.
type DateOnly struct {
	t time.Time
}

// New creates a DateOnly from year, month and day.
func New(year int, month time.Month, day int) DateOnly {
	return DateOnly{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a time.Time to its calendar date.
func FromTime(t time.Time) DateOnly {
	return New(t.Year(), t.Month(), t.Day())
}

// Parse parses a date in YYYY-MM-DD format.
func Parse(s string) (DateOnly, error) {
	t, err := time.Parse(Format, s)
	if err != nil {
		return DateOnly{}, err
	}
	return FromTime(t), nil
}

// Time returns the underlying time.Time at midnight UTC.
func (d DateOnly) Time() time.Time {
	return d.t
}

// String returns the date in YYYY-MM-DD format.
func (d DateOnly) String() string {
	return d.t.Format(Format)
}

// IsZero reports whether the date is the zero value.
func (d DateOnly) IsZero() bool {
	return d.t.IsZero()
}

// Weekday returns the day of week.
func (d DateOnly) Weekday() time.Weekday {
	return d.t.Weekday()
}

// IsWorkingDay reports whether the date falls on Monday through Friday.
func (d DateOnly) IsWorkingDay() bool {
	wd := d.t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Before reports whether d is strictly before other.
func (d DateOnly) Before(other DateOnly) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other.
func (d DateOnly) After(other DateOnly) bool {
	return d.t.After(other.t)
}

// Equal reports whether d and other are the same calendar date.
func (d DateOnly) Equal(other DateOnly) bool {
	return d.t.Equal(other.t)
}

// AddDays returns the date shifted by n calendar days (n may be negative).
func (d DateOnly) AddDays(n int) DateOnly {
	return FromTime(d.t.AddDate(0, 0, n))
}

// DaysUntil returns the number of days from d to other (negative if other is earlier).
func (d DateOnly) DaysUntil(other DateOnly) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// Scan implements sql.Scanner. Accepts time.Time and YYYY-MM-DD strings.
func (d *DateOnly) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = DateOnly{}
		return nil
	case time.Time:
		*d = FromTime(v)
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("dates: cannot scan %T into DateOnly", value)
	}
}

// Value implements driver.Valuer.
func (d DateOnly) Value() (driver.Value, error) {
	if d.t.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

// Overlaps reports whether two inclusive date ranges intersect:
// aStart <= bEnd AND aEnd >= bStart.
func Overlaps(aStart, aEnd, bStart, bEnd DateOnly) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// Intersect returns the intersection of two inclusive date ranges.
// ok is false when the ranges do not overlap.
func Intersect(aStart, aEnd, bStart, bEnd DateOnly) (start, end DateOnly, ok bool) {
	if !Overlaps(aStart, aEnd, bStart, bEnd) {
		return DateOnly{}, DateOnly{}, false
	}
	start = aStart
	if bStart.After(start) {
		start = bStart
	}
	end = aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return start, end, true
}

// AddMonthsInclusive returns the inclusive end date of a period that starts
// at start and lasts the given number of calendar months. The day component
// is clamped to the target month's length before stepping back one day, so
// Jan 1 + 1 month covers Jan 1..Jan 31, and Jan 31 + 1 month ends on the
// last day February can reach from Jan 30.
func AddMonthsInclusive(start DateOnly, months int) DateOnly {
	year, month, day := start.t.Date()
	targetMonth := time.Month(int(month) + months)

	// Normalize the year/month pair first, then clamp the day to avoid
	// time.AddDate rolling Jan 31 + 1 month into March.
	normalized := time.Date(year, targetMonth, 1, 0, 0, 0, 0, time.UTC)
	lastDay := daysInMonth(normalized.Year(), normalized.Month())
	if day > lastDay {
		day = lastDay
	}

	end := time.Date(normalized.Year(), normalized.Month(), day, 0, 0, 0, 0, time.UTC)
	return FromTime(end.AddDate(0, 0, -1))
}

// WorkingDaysInclusive counts the Monday-Friday dates in [start, end].
// Returns 0 when end is before start.
func WorkingDaysInclusive(start, end DateOnly) int {
	if end.Before(start) {
		return 0
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDays(1) {
		if d.IsWorkingDay() {
			count++
		}
	}
	return count
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
