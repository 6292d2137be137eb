package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const timeLayout = "15:04"

// ErrInvalidTimeString is returned when a value does not parse as HH:MM.
var ErrInvalidTimeString = errors.New("types: invalid time string format")

// TimeString represents a time of day in HH:MM format.
type TimeString string

// NewTimeStringFromString parses and validates an HH:MM value.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate checks that the value is a well-formed HH:MM time.
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// String returns the raw HH:MM value.
func (t TimeString) String() string {
	return string(t)
}

// IsZero reports whether the value is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// IsBefore reports whether t is earlier in the day than other.
// Both values must be valid HH:MM strings; lexicographic order matches
// chronological order for this layout.
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// Scan implements sql.Scanner. Postgres TIME columns arrive as strings
// or time.Time depending on the driver path.
func (t *TimeString) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		*t = TimeString(v[:min(len(v), 5)])
		return nil
	case []byte:
		s := string(v)
		*t = TimeString(s[:min(len(s), 5)])
		return nil
	case time.Time:
		*t = TimeString(v.Format(timeLayout))
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into TimeString", value)
	}
}

// Value implements driver.Valuer.
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
