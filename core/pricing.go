package core

import (
	"math"
	"time"
)

const (
	// DefaultDailyRate is the per-person per-day premium.
	DefaultDailyRate = 5.0
	// DefaultMaxHeadcount caps the number of insured persons per policy.
	DefaultMaxHeadcount = 10
	// CorporateDiscount is the flat reduction applied to partner purchases.
	CorporateDiscount = 0.25
)

// PricingConfig carries the tunable pricing parameters.
type PricingConfig struct {
	DailyRate    float64
	MaxHeadcount int
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		DailyRate:    DefaultDailyRate,
		MaxHeadcount: DefaultMaxHeadcount,
	}
}

// TripDays returns the trip length in whole days: the ceiling of the
// absolute difference between the two instants. Equal instants yield 0,
// which prices to a free policy; whether a one-day floor should apply is an
// open product question, so the raw ceiling is kept.
//
// TripDays does not validate its inputs; callers gate on completeness.
func TripDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// Price computes the total premium: days x rate x headcount, reduced by
// CorporateDiscount for corporate principals, rounded half-away-from-zero
// to two decimal places.
func (c PricingConfig) Price(days, headcount int, corporate bool) float64 {
	total := float64(days) * c.DailyRate * float64(headcount)
	if corporate {
		total *= 1 - CorporateDiscount
	}
	return math.Round(total*100) / 100
}
