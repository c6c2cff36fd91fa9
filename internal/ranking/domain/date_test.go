package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	christmas := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		input  any
		want   time.Time
		wantOK bool
	}{
		{"nil", nil, time.Time{}, false},
		{"iso", "2025-12-25", christmas, true},
		{"us", "12/25/2025", christmas, true},
		{"us single digits", "1/5/2026", time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), true},
		{"date time value", time.Date(2025, time.December, 25, 18, 30, 0, 0, time.UTC), christmas, true},
		{"iso with time is rejected", "2025-12-25T10:00:00Z", time.Time{}, false},
		{"day first is rejected", "25/12/2025", time.Time{}, false},
		{"garbage", "next tuesday", time.Time{}, false},
		{"empty string", "", time.Time{}, false},
		{"number", 20251225, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			}
		})
	}
}

func TestParseDate_FormatsAgree(t *testing.T) {
	iso, ok := ParseDate("2025-12-25")
	require.True(t, ok)
	us, ok := ParseDate("12/25/2025")
	require.True(t, ok)

	assert.Equal(t, iso, us)
}

func TestParseDate_TimePointer(t *testing.T) {
	ts := time.Date(2025, time.March, 3, 23, 59, 0, 0, time.UTC)

	got, ok := ParseDate(&ts)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), got)

	var missing *time.Time
	_, ok = ParseDate(missing)
	assert.False(t, ok)
}

func TestParseDate_KeepsLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2025, time.July, 1, 6, 0, 0, 0, loc) // still June 30 in UTC

	got, ok := ParseDate(ts)
	require.True(t, ok)
	assert.Equal(t, time.July, got.Month())
	assert.Equal(t, 1, got.Day())
}
