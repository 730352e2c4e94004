package lifecycle

import (
	"fmt"
	"time"
)

type EventType string

const (
	EventIrrigation    EventType = "irrigation"
	EventFertilization EventType = "fertilization"
	EventPestCheck     EventType = "pest_check"
	EventHarvesting    EventType = "harvesting"
	EventNone          EventType = "none"
)

// careEventTypes is also the tie-break priority order for next-event selection.
var careEventTypes = []EventType{EventIrrigation, EventFertilization, EventPestCheck}

func (e EventType) IsCareEvent() bool {
	for _, t := range careEventTypes {
		if t == e {
			return true
		}
	}
	return false
}

type EventStatus string

const (
	StatusDue        EventStatus = "due"
	StatusDueSoon    EventStatus = "due_soon" // within 3 days
	StatusDueNow     EventStatus = "due_now"  // today or overdue
	StatusRestricted EventStatus = "restricted"
)

// dueSoonDays is the window the UI renders as an amber badge.
const dueSoonDays = 3

// EventHistory carries the last-performed timestamps off the crop record.
// Nil means the event has never been logged; cadence then counts from sowing.
type EventHistory struct {
	LastIrrigationAt    *time.Time
	LastFertilizationAt *time.Time
	LastPestCheckAt     *time.Time
}

func (h EventHistory) last(ev EventType) *time.Time {
	switch ev {
	case EventIrrigation:
		return h.LastIrrigationAt
	case EventFertilization:
		return h.LastFertilizationAt
	case EventPestCheck:
		return h.LastPestCheckAt
	}
	return nil
}

// EventView is one care event type's derived scheduling state.
type EventView struct {
	Type            EventType   `json:"type"`
	Status          EventStatus `json:"status"`
	DueDate         time.Time   `json:"due_date"`
	DaysUntil       int         `json:"days_until"`
	RestrictedUntil *time.Time  `json:"restricted_until,omitempty"`
}

// NextAction is the "what should I do next" view the UI and the chat context
// are built from.
type NextAction struct {
	Event             EventType   `json:"next_event"`
	DueDate           *time.Time  `json:"next_event_due_date,omitempty"`
	DaysUntil         int         `json:"next_event_days_until"`
	RestrictionActive bool        `json:"event_restriction_active"`
	RestrictionEvent  EventType   `json:"event_restriction_event,omitempty"`
	RestrictionUntil  *time.Time  `json:"event_restriction_until,omitempty"`
	Events            []EventView `json:"events"`
}

// Schedule derives each care event type's state independently and then picks
// the next required action. Logging an event is an external write; this only
// reads the resulting timestamps, so re-running it on the same snapshot
// always lands in the same place.
//
// Selection: harvesting overrides everything once the crop is ready.
// Otherwise the soonest-due non-restricted event wins, ties going in
// careEventTypes order. If all three are cooling down, the answer is "none"
// and the soonest restriction end is surfaced for display.
func Schedule(pol *Policy, stage Stage, sowingDate time.Time, hist EventHistory, harvest HarvestEstimate, asOf time.Time) (NextAction, error) {
	views := make([]EventView, 0, len(careEventTypes))
	for _, ev := range careEventTypes {
		last := hist.last(ev)
		if last != nil && daysBetween(sowingDate, *last) < 0 {
			return NextAction{}, fmt.Errorf("%w: last %s at %s predates sowing %s",
				ErrInconsistentEventHistory, ev, last.Format("2006-01-02"), sowingDate.Format("2006-01-02"))
		}

		// Cadence counts from the last occurrence, or from sowing if never done.
		anchor := sowingDate
		if last != nil {
			anchor = *last
		}
		due := addDays(anchor, pol.Cadence(stage, ev))
		v := EventView{
			Type:      ev,
			DueDate:   due,
			DaysUntil: daysBetween(asOf, due),
		}

		if last != nil {
			until := addDays(*last, pol.Cooldown(stage, ev))
			if daysBetween(*last, asOf) < pol.Cooldown(stage, ev) {
				v.Status = StatusRestricted
				v.RestrictedUntil = &until
			}
		}
		if v.Status == "" {
			switch {
			case v.DaysUntil <= 0:
				v.Status = StatusDueNow
			case v.DaysUntil <= dueSoonDays:
				v.Status = StatusDueSoon
			default:
				v.Status = StatusDue
			}
		}
		views = append(views, v)
	}

	out := NextAction{Event: EventNone, Events: views}

	// The displayed restriction is the one keyed to the most recently logged
	// event; older cooldowns still block their own type but are not the badge.
	if recent := mostRecentEvent(hist); recent != EventNone {
		for _, v := range views {
			if v.Type == recent && v.Status == StatusRestricted {
				out.RestrictionActive = true
				out.RestrictionEvent = v.Type
				out.RestrictionUntil = v.RestrictedUntil
			}
		}
	}

	if harvest.IsReady {
		out.Event = EventHarvesting
		due := harvest.ExpectedHarvestDate
		out.DueDate = &due
		return out, nil
	}

	picked := false
	for _, v := range views {
		if v.Status == StatusRestricted {
			continue
		}
		if !picked || v.DaysUntil < out.DaysUntil {
			out.Event = v.Type
			due := v.DueDate
			out.DueDate = &due
			out.DaysUntil = v.DaysUntil
			picked = true
		}
	}
	if !picked {
		// Everything is cooling down: point at whichever frees up first.
		for _, v := range views {
			if v.RestrictedUntil == nil {
				continue
			}
			if out.RestrictionUntil == nil || v.RestrictedUntil.Before(*out.RestrictionUntil) {
				out.RestrictionActive = true
				out.RestrictionEvent = v.Type
				out.RestrictionUntil = v.RestrictedUntil
			}
		}
	}
	return out, nil
}

// ValidateEventTime is the boundary check for logging a care action: a
// performed-at before the sowing date can only be a data-entry mistake.
func ValidateEventTime(sowingDate, performedAt time.Time) error {
	if daysBetween(sowingDate, performedAt) < 0 {
		return fmt.Errorf("%w: performed at %s predates sowing %s",
			ErrInconsistentEventHistory, performedAt.Format("2006-01-02"), sowingDate.Format("2006-01-02"))
	}
	return nil
}

func mostRecentEvent(hist EventHistory) EventType {
	recent := EventNone
	var at time.Time
	for _, ev := range careEventTypes {
		if last := hist.last(ev); last != nil && (recent == EventNone || last.After(at)) {
			recent, at = ev, *last
		}
	}
	return recent
}
