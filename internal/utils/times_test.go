package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRoundTrip(t *testing.T) {
	s := "2026-03-01 09:30:00"
	parsed, err := ParseTime(s)
	require.NoError(t, err)
	assert.Equal(t, s, parsed.Format(TimeLayout))
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	_, err := ParseTime("03/01/2026 9:30am")
	assert.Error(t, err)
}

func TestHoursBetween(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		want       float64
	}{
		{"three and a half hours", "2026-03-01 09:00:00", "2026-03-01 12:30:00", 3.5},
		{"forty five minutes", "2026-03-01 10:00:00", "2026-03-01 10:45:00", 0.75},
		{"zero duration", "2026-03-01 10:00:00", "2026-03-01 10:00:00", 0},
		{"across midnight", "2026-03-01 23:00:00", "2026-03-02 01:00:00", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HoursBetween(tc.start, tc.end)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestHoursBetweenBadInput(t *testing.T) {
	_, err := HoursBetween("bogus", "2026-03-01 10:00:00")
	assert.Error(t, err)
	_, err = HoursBetween("2026-03-01 10:00:00", "bogus")
	assert.Error(t, err)
}
