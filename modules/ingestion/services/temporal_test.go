package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp_SourceLayout(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	parser := NewTemporalParser(loc)

	got, ok := parser.ParseTimestamp(Present("6/25/2024, 3:07:45 PM"))
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 25, 15, 7, 45, 0, loc), got)
}

func TestParseTimestamp_FallbackLayouts(t *testing.T) {
	t.Parallel()
	parser := NewTemporalParser(time.UTC)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"6/25/2024 3:07:45 PM", time.Date(2024, 6, 25, 15, 7, 45, 0, time.UTC)},
		{"2024-06-25 15:07:45", time.Date(2024, 6, 25, 15, 7, 45, 0, time.UTC)},
		{"2024-06-25T15:07:45Z", time.Date(2024, 6, 25, 15, 7, 45, 0, time.UTC)},
		{"6/25/2024", time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)},
		{"2024-06-25", time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := parser.ParseTimestamp(Present(tt.raw))
		require.True(t, ok, "raw=%q", tt.raw)
		assert.True(t, tt.want.Equal(got), "raw=%q got=%v", tt.raw, got)
	}
}

func TestParseTimestamp_AbsentAndGarbage(t *testing.T) {
	t.Parallel()
	parser := NewTemporalParser(time.UTC)

	_, ok := parser.ParseTimestamp(Absent())
	assert.False(t, ok)

	for _, raw := range []string{"not a date", "25/6/2024, 3:07:45 PM", "99/99/9999"} {
		_, ok := parser.ParseTimestamp(Present(raw))
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestParseDurationSeconds(t *testing.T) {
	t.Parallel()
	parser := NewTemporalParser(time.UTC)

	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"02:58:25", 10705, true},
		{"00:00:00", 0, true},
		{"23:59:59", 86399, true},
		{"58:25", 3505, true},
		{"05:30", 330, true},
		{"90", 90, true},
		{"0", 0, true},
		{"24:00:00", 0, false},
		{"12:60:00", 0, false},
		{"12:00:60", 0, false},
		{"60:25", 0, false},
		{"1:2:3:4", 0, false},
		{"-90", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parser.ParseDurationSeconds(Present(tt.raw))
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		if tt.ok {
			assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
		}
	}
}

func TestParseDurationSeconds_AbsentIsNotAnError(t *testing.T) {
	t.Parallel()
	parser := NewTemporalParser(time.UTC)

	_, ok := parser.ParseDurationSeconds(Absent())
	assert.False(t, ok)
	_, ok = parser.ParseDurationSeconds(Normalize(""))
	assert.False(t, ok)
}

func TestParseDurationMinutes_RoundsToTwoDecimals(t *testing.T) {
	t.Parallel()
	parser := NewTemporalParser(time.UTC)

	minutes, ok := parser.ParseDurationMinutes(Present("02:58:25"))
	require.True(t, ok)
	assert.Equal(t, "178.42", minutes.StringFixed(2))

	minutes, ok = parser.ParseDurationMinutes(Present("90"))
	require.True(t, ok)
	assert.Equal(t, "1.50", minutes.StringFixed(2))

	_, ok = parser.ParseDurationMinutes(Absent())
	assert.False(t, ok)
}
