package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   string
		aEnd     string
		bStart   string
		bEnd     string
		expected bool
	}{
		{"identical ranges", "2025-01-01", "2025-01-31", "2025-01-01", "2025-01-31", true},
		{"contained range", "2025-01-01", "2025-01-31", "2025-01-10", "2025-01-20", true},
		{"partial overlap at end", "2025-01-01", "2025-01-31", "2025-01-15", "2025-02-15", true},
		{"touching boundaries overlap", "2025-01-01", "2025-01-31", "2025-01-31", "2025-02-28", true},
		{"single shared day", "2025-01-15", "2025-01-15", "2025-01-15", "2025-01-15", true},
		{"adjacent ranges do not overlap", "2025-01-01", "2025-01-31", "2025-02-01", "2025-02-28", false},
		{"disjoint ranges", "2025-01-01", "2025-01-10", "2025-03-01", "2025-03-10", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aStart := mustParse(t, tt.aStart)
			aEnd := mustParse(t, tt.aEnd)
			bStart := mustParse(t, tt.bStart)
			bEnd := mustParse(t, tt.bEnd)

			assert.Equal(t, tt.expected, Overlaps(aStart, aEnd, bStart, bEnd))
			// Overlap is symmetric
			assert.Equal(t, tt.expected, Overlaps(bStart, bEnd, aStart, aEnd))
		})
	}
}

func TestAddMonthsInclusive(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		months   int
		expected string
	}{
		{"jan 1 plus one month ends jan 31", "2025-01-01", 1, "2025-01-31"},
		{"feb 1 plus one month ends feb 28", "2025-02-01", 1, "2025-02-28"},
		{"feb 1 plus one month in leap year", "2024-02-01", 1, "2024-02-29"},
		{"jan 31 plus one month clamps to february", "2025-01-31", 1, "2025-02-27"},
		{"mar 15 plus three months", "2025-03-15", 3, "2025-06-14"},
		{"full year", "2025-01-01", 12, "2025-12-31"},
		{"year boundary", "2025-12-01", 2, "2026-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonthsInclusive(mustParse(t, tt.start), tt.months)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestWorkingDaysInclusive(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		// 2025-01-06 is a Monday
		{"full week", "2025-01-06", "2025-01-12", 5},
		{"monday to friday", "2025-01-06", "2025-01-10", 5},
		{"weekend only", "2025-01-11", "2025-01-12", 0},
		{"single working day", "2025-01-08", "2025-01-08", 1},
		{"single saturday", "2025-01-11", "2025-01-11", 0},
		{"two weeks", "2025-01-06", "2025-01-19", 10},
		{"inverted range", "2025-01-10", "2025-01-06", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorkingDaysInclusive(mustParse(t, tt.start), mustParse(t, tt.end))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIntersect(t *testing.T) {
	t.Run("partial overlap", func(t *testing.T) {
		start, end, ok := Intersect(
			mustParse(t, "2025-01-01"), mustParse(t, "2025-01-31"),
			mustParse(t, "2025-01-15"), mustParse(t, "2025-02-15"),
		)
		require.True(t, ok)
		assert.Equal(t, "2025-01-15", start.String())
		assert.Equal(t, "2025-01-31", end.String())
	})

	t.Run("no overlap", func(t *testing.T) {
		_, _, ok := Intersect(
			mustParse(t, "2025-01-01"), mustParse(t, "2025-01-31"),
			mustParse(t, "2025-02-01"), mustParse(t, "2025-02-28"),
		)
		assert.False(t, ok)
	})
}

func TestIsWorkingDay(t *testing.T) {
	assert.True(t, New(2025, time.January, 6).IsWorkingDay())   // Monday
	assert.True(t, New(2025, time.January, 10).IsWorkingDay())  // Friday
	assert.False(t, New(2025, time.January, 11).IsWorkingDay()) // Saturday
	assert.False(t, New(2025, time.January, 12).IsWorkingDay()) // Sunday
}

func TestDaysUntil(t *testing.T) {
	a := mustParse(t, "2025-01-01")
	b := mustParse(t, "2025-01-06")
	assert.Equal(t, 5, a.DaysUntil(b))
	assert.Equal(t, -5, b.DaysUntil(a))
}

func mustParse(t *testing.T, s string) DateOnly {
	t.Helper()
	d, err := Parse(s)
	require.NoError(t, err)
	return d
}
