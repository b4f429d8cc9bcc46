package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFlatMinimumUnderOneHour(t *testing.T) {
	c := NewCalculator()

	// 45 minutes at any rate bills the flat minimum.
	amount, dur, err := c.Compute("2026-03-01 10:00:00", "2026-03-01 10:45:00", "Car", 2500)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, amount)
	assert.Equal(t, 0.75, dur)
}

func TestComputeExactlyOneHourIsStillMinimum(t *testing.T) {
	c := NewCalculator()

	amount, dur, err := c.Compute("2026-03-01 08:00:00", "2026-03-01 09:00:00", "Motorcycle", 0)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, amount)
	assert.Equal(t, 1.0, dur)
}

func TestComputeLongStayUsesRate(t *testing.T) {
	c := NewCalculator()

	// 3.5 hours at 1000/h.
	amount, dur, err := c.Compute("2026-03-01 09:00:00", "2026-03-01 12:30:00", "Car", 1000)
	require.NoError(t, err)
	assert.Equal(t, 3500.0, amount)
	assert.Equal(t, 3.5, dur)
}

func TestComputeRoundsDurationUpToHundredths(t *testing.T) {
	c := NewCalculator()

	// 1h 0m 1s = 1.000277... hours; recorded as 1.01 and billed by the
	// exact duration, not the rounded one.
	amount, dur, err := c.Compute("2026-03-01 09:00:00", "2026-03-01 10:00:01", "Car", 3600)
	require.NoError(t, err)
	assert.Equal(t, 1.01, dur)
	assert.Equal(t, 3601.0, amount)
}

func TestComputeRoundsAmountToCents(t *testing.T) {
	c := NewCalculator()

	// 2h 20m at a rate that does not divide evenly exercises the cent
	// rounding path.
	amount, _, err := c.Compute("2026-03-01 09:00:00", "2026-03-01 11:20:00", "Car", 1234.56)
	require.NoError(t, err)
	assert.InDelta(t, 2880.64, amount, 0.001)
}

func TestComputeBadTimestamp(t *testing.T) {
	c := NewCalculator()

	_, _, err := c.Compute("not-a-time", "2026-03-01 10:00:00", "Car", 0)
	assert.Error(t, err)
}

func TestRateForSlotOverrideWins(t *testing.T) {
	c := NewCalculator()

	assert.Equal(t, 750.0, c.RateFor("Car", 750))
	assert.Equal(t, 750.0, c.RateFor("Motorcycle", 750))
}

func TestRateForTypeDefaults(t *testing.T) {
	c := NewCalculator()

	// zero and negative slot rates fall through to the type default
	assert.Equal(t, DefaultCarRate, c.RateFor("Car", 0))
	assert.Equal(t, DefaultCarRate, c.RateFor("car", -1))
	assert.Equal(t, DefaultCarRate, c.RateFor("CAR", 0))
	assert.Equal(t, DefaultMotorcycleRate, c.RateFor("Motorcycle", 0))
	assert.Equal(t, DefaultMotorcycleRate, c.RateFor("truck", 0))
	assert.Equal(t, DefaultMotorcycleRate, c.RateFor("", 0))
}
