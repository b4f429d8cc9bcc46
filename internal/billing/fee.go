// Package billing computes parking fees from session duration and the
// applicable hourly rate.
package billing

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/repository"
	"github.com/iliyamo/smart-parking/internal/utils"
)

// Default hourly rates applied when neither the slot nor the settings
// store carries an override.
const (
	DefaultCarRate        = 1000.0
	DefaultMotorcycleRate = 500.0

	// MinimumFee is charged for any stay of one hour or less, regardless
	// of the hourly rate in effect.
	MinimumFee = 1000.0
)

// Rates holds the per-type default hourly rates.
type Rates struct {
	Car        float64
	Motorcycle float64
}

// Calculator resolves rates and computes fees. It is safe for concurrent
// use; Reload swaps the default rates atomically under the lock.
type Calculator struct {
	mu    sync.RWMutex
	rates Rates
}

// NewCalculator returns a Calculator preloaded with the built-in default
// rates.
func NewCalculator() *Calculator {
	return &Calculator{rates: Rates{Car: DefaultCarRate, Motorcycle: DefaultMotorcycleRate}}
}

// Reload refreshes the default rates from the settings store. Unparseable
// or missing values fall back to the built-in defaults.
func (c *Calculator) Reload(ctx context.Context, settings *repository.SettingRepo) error {
	all, err := settings.GetAll(ctx)
	if err != nil {
		return err
	}
	r := Rates{Car: DefaultCarRate, Motorcycle: DefaultMotorcycleRate}
	if v, err := strconv.ParseFloat(all[model.SettingCarRate], 64); err == nil && v > 0 {
		r.Car = v
	}
	if v, err := strconv.ParseFloat(all[model.SettingMotorRate], 64); err == nil && v > 0 {
		r.Motorcycle = v
	}
	c.mu.Lock()
	c.rates = r
	c.mu.Unlock()
	return nil
}

// Rates returns the current default rates.
func (c *Calculator) Rates() Rates {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rates
}

// RateFor resolves the hourly rate for a session: the slot override wins
// when positive, otherwise the type default applies. Type matching is
// case-insensitive on the first letter, so "car", "Car" and "CAR" all
// bill at the car rate and everything else at the motorcycle rate.
func (c *Calculator) RateFor(vehicleType string, slotRate float64) float64 {
	if slotRate > 0 {
		return slotRate
	}
	r := c.Rates()
	if strings.HasPrefix(strings.ToLower(vehicleType), "c") {
		return r.Car
	}
	return r.Motorcycle
}

// Compute derives the fee and the recorded duration for a completed
// session. Stays of one hour or less cost the flat minimum fee no matter
// the rate; longer stays cost duration times rate, floored at zero. The
// returned duration is rounded up to hundredths of an hour and the amount
// to cents.
func (c *Calculator) Compute(entryTime, exitTime, vehicleType string, slotRate float64) (amount, durationHours float64, err error) {
	hours, err := utils.HoursBetween(entryTime, exitTime)
	if err != nil {
		return 0, 0, err
	}

	var fee float64
	if hours <= 1.0 {
		fee = MinimumFee
	} else {
		fee = hours * c.RateFor(vehicleType, slotRate)
		if fee < 0 {
			fee = 0
		}
	}

	durationHours = math.Ceil(hours*100) / 100
	amount = math.Round(fee*100) / 100
	return amount, durationHours, nil
}
