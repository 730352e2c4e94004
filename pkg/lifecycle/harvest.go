package lifecycle

import (
	"fmt"
	"time"
)

type HarvestEstimate struct {
	ExpectedHarvestDate time.Time `json:"expected_harvest_date"`
	DaysRemaining       int       `json:"days_remaining"`
	IsReady             bool      `json:"is_ready_for_harvest"`
}

// EstimateHarvest projects the harvest date as sowing + duration. Days
// remaining floors at zero: a crop past its window is overdue, which is a
// legitimate status to show the farmer, not an error.
func EstimateHarvest(sowingDate time.Time, durationDays int, asOf time.Time) (HarvestEstimate, error) {
	if durationDays < 1 {
		return HarvestEstimate{}, fmt.Errorf("%w: duration_days=%d", ErrInvalidDuration, durationDays)
	}
	harvest := addDays(sowingDate, durationDays)
	remaining := daysBetween(asOf, harvest)
	if remaining < 0 {
		remaining = 0
	}
	return HarvestEstimate{
		ExpectedHarvestDate: harvest,
		DaysRemaining:       remaining,
		IsReady:             daysBetween(sowingDate, asOf) >= durationDays,
	}, nil
}
