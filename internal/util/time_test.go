package util

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTimeProvider(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "local timezone", timezone: "Local"},
		{name: "UTC timezone", timezone: "UTC"},
		{name: "empty timezone defaults to Local", timezone: ""},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timezone")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, GetTimeProvider().Location())
		})
	}
}

func TestTimeProvider_FormatTimestamp(t *testing.T) {
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("UTC"))

	assert.Equal(t, "2025-01-02 03:04", tp.FormatTimestamp("2025-01-02T03:04:05.123Z", "2006-01-02 15:04"))
	assert.Equal(t, "not-a-time", tp.FormatTimestamp("not-a-time", "2006-01-02 15:04"))
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2025-06-01T10:00:00.500Z")
	require.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, time.Duration(ts.Nanosecond()))

	_, ok = ParseTimestamp("")
	assert.False(t, ok)

	_, ok = ParseTimestamp("yesterday")
	assert.False(t, ok)
}

func TestCompareTimestamps(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"same format ordered", "2025-01-01T10:00:00.000Z", "2025-01-01T11:00:00.000Z", -1},
		{"equal", "2025-01-01T10:00:00Z", "2025-01-01T10:00:00Z", 0},
		{"mixed precision compares chronologically", "2025-01-01T10:00:00Z", "2025-01-01T09:59:59.999Z", 1},
		{"offset form equals Z form", "2025-01-01T10:00:00+00:00", "2025-01-01T10:00:00Z", 0},
		{"empty sorts before parseable", "", "2025-01-01T10:00:00Z", -1},
		{"unparseable sorts before parseable", "zzz", "2025-01-01T10:00:00Z", -1},
		{"parseable sorts after unparseable", "2025-01-01T10:00:00Z", "2026", 1},
		{"unparseable compare as strings", "abc", "abd", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareTimestamps(tt.a, tt.b))
		})
	}
}

func TestCompareTimestampsIsTransitive(t *testing.T) {
	values := []string{
		"2025-01-01T10:00:00+02:00",
		"2025-01-01T09:00:00Z",
		"2025-01-01T08:30:00Z",
		"garbage",
		"",
		"2025-01-01T10:00:00.5Z",
	}

	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				if CompareTimestamps(a, b) < 0 && CompareTimestamps(b, c) < 0 {
					assert.Negative(t, CompareTimestamps(a, c), "%q < %q < %q", a, b, c)
				}
			}
		}
	}

	sorted := append([]string(nil), values...)
	sort.SliceStable(sorted, func(i, j int) bool { return CompareTimestamps(sorted[i], sorted[j]) < 0 })
	assert.Equal(t, []string{
		"",
		"garbage",
		"2025-01-01T10:00:00+02:00",
		"2025-01-01T08:30:00Z",
		"2025-01-01T09:00:00Z",
		"2025-01-01T10:00:00.5Z",
	}, sorted)
}

func TestFormatModTime(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	mtime := time.Date(2025, 3, 4, 13, 0, 0, 750_000_000, loc)

	assert.Equal(t, "2025-03-04T05:00:00Z", FormatModTime(mtime))
}

func TestTodayUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 12, 31, 22, 0, 0, 0, loc)

	assert.Equal(t, "2026-01-01", TodayUTC(now))
}
