// Package lifecycle derives a crop's growth stage, harvest outlook and next
// required care action from stored facts (sowing date, duration, last-event
// timestamps). Everything is pure: derived state is recomputed from the
// record on every call against an explicit as-of time, never stored back,
// so two reads of the same snapshot can never disagree.
package lifecycle

import (
	"strconv"
	"time"
)

// Snapshot is the slice of a crop record the engine reads. The owning
// storage layer fills it; the engine never writes any of it back.
type Snapshot struct {
	CropType            string
	SowingDate          time.Time
	DurationDays        int
	LastIrrigationAt    *time.Time
	LastFertilizationAt *time.Time
	LastPestCheckAt     *time.Time
}

type DerivedState struct {
	AsOf                   time.Time   `json:"as_of"`
	DaysAfterSowing        int         `json:"days_after_sowing"`
	Stage                  Stage       `json:"stage"`
	KnownCropType          bool        `json:"known_crop_type"` // false = default timeline in use
	ExpectedHarvestDate    time.Time   `json:"expected_harvest_date"`
	DaysRemaining          int         `json:"days_remaining"`
	IsReadyForHarvest      bool        `json:"is_ready_for_harvest"`
	NextEvent              EventType   `json:"next_event"`
	NextEventDueDate       *time.Time  `json:"next_event_due_date,omitempty"`
	NextEventDaysUntil     int         `json:"next_event_days_until"`
	EventRestrictionActive bool        `json:"event_restriction_active"`
	EventRestrictionEvent  EventType   `json:"event_restriction_event,omitempty"`
	EventRestrictionUntil  *time.Time  `json:"event_restriction_until,omitempty"`
	Events                 []EventView `json:"events"`
}

// Engine bundles the static reference tables. Construct once at startup;
// safe for concurrent use since nothing here mutates after New.
type Engine struct {
	timelines *TimelineTable
	policy    *Policy
}

func New(timelines *TimelineTable, policy *Policy) *Engine {
	if timelines == nil {
		timelines = DefaultTimelines()
	}
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Engine{timelines: timelines, policy: policy}
}

func (e *Engine) Timelines() *TimelineTable { return e.timelines }

// Classify applies the late-registration rule against this engine's tables.
func (e *Engine) Classify(cropType string, sowingDate time.Time, declared RegistrationMode, asOf time.Time) (Classification, error) {
	return Classify(e.timelines, cropType, sowingDate, declared, asOf)
}

// Derive recomputes the full derived state for one crop snapshot.
func (e *Engine) Derive(snap Snapshot, asOf time.Time) (DerivedState, error) {
	das := daysBetween(snap.SowingDate, asOf)
	stage, err := e.timelines.ResolveStage(snap.CropType, das)
	if err != nil {
		return DerivedState{}, err
	}
	harvest, err := EstimateHarvest(snap.SowingDate, snap.DurationDays, asOf)
	if err != nil {
		return DerivedState{}, err
	}
	next, err := Schedule(e.policy, stage, snap.SowingDate, EventHistory{
		LastIrrigationAt:    snap.LastIrrigationAt,
		LastFertilizationAt: snap.LastFertilizationAt,
		LastPestCheckAt:     snap.LastPestCheckAt,
	}, harvest, asOf)
	if err != nil {
		return DerivedState{}, err
	}

	_, known := e.timelines.Lookup(snap.CropType)
	return DerivedState{
		AsOf:                   civilDate(asOf),
		DaysAfterSowing:        das,
		Stage:                  stage,
		KnownCropType:          known,
		ExpectedHarvestDate:    harvest.ExpectedHarvestDate,
		DaysRemaining:          harvest.DaysRemaining,
		IsReadyForHarvest:      harvest.IsReady,
		NextEvent:              next.Event,
		NextEventDueDate:       next.DueDate,
		NextEventDaysUntil:     next.DaysUntil,
		EventRestrictionActive: next.RestrictionActive,
		EventRestrictionEvent:  next.RestrictionEvent,
		EventRestrictionUntil:  next.RestrictionUntil,
		Events:                 next.Events,
	}, nil
}

// Facts flattens the fields the chat layer injects into a farming-advice
// prompt. Plain strings only; the chat side attaches no further semantics.
func (d DerivedState) Facts() map[string]string {
	return map[string]string{
		"stage":                 string(d.Stage),
		"days_after_sowing":     strconv.Itoa(d.DaysAfterSowing),
		"expected_harvest_date": d.ExpectedHarvestDate.Format("2006-01-02"),
		"days_remaining":        strconv.Itoa(d.DaysRemaining),
		"next_event":            string(d.NextEvent),
		"next_event_days_until": strconv.Itoa(d.NextEventDaysUntil),
	}
}
