package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tp(t time.Time) *time.Time { return &t }

func notReady() HarvestEstimate { return HarvestEstimate{} }

func TestScheduleFreshlySown(t *testing.T) {
	asOf := date(2025, 6, 1)
	next, err := Schedule(DefaultPolicy(), StageGermination, asOf, EventHistory{}, notReady(), asOf)
	require.NoError(t, err)

	// germination irrigation cadence is 3 days, the soonest of the three
	assert.Equal(t, EventIrrigation, next.Event)
	assert.Equal(t, 3, next.DaysUntil)
	require.NotNil(t, next.DueDate)
	assert.Equal(t, date(2025, 6, 4), *next.DueDate)
	assert.False(t, next.RestrictionActive)

	byType := map[EventType]EventView{}
	for _, v := range next.Events {
		byType[v.Type] = v
	}
	assert.Equal(t, StatusDueSoon, byType[EventIrrigation].Status)
	assert.Equal(t, StatusDue, byType[EventFertilization].Status)
	assert.Equal(t, StatusDue, byType[EventPestCheck].Status)
}

func TestScheduleOverdueIsDueNow(t *testing.T) {
	asOf := date(2025, 6, 10)
	sown := asOf.AddDate(0, 0, -5)
	next, err := Schedule(DefaultPolicy(), StageGermination, sown, EventHistory{}, notReady(), asOf)
	require.NoError(t, err)

	assert.Equal(t, EventIrrigation, next.Event)
	assert.Equal(t, -2, next.DaysUntil) // two days late
	for _, v := range next.Events {
		if v.Type == EventIrrigation {
			assert.Equal(t, StatusDueNow, v.Status)
		}
	}
}

// Spec scenario: irrigation performed yesterday with a 2-day cooldown is
// restricted, and the pick falls through to the next-soonest care event.
func TestScheduleRestrictionFallsThrough(t *testing.T) {
	asOf := date(2025, 6, 30)
	sown := asOf.AddDate(0, 0, -30)
	hist := EventHistory{LastIrrigationAt: tp(asOf.AddDate(0, 0, -1))}

	next, err := Schedule(DefaultPolicy(), StageVegetative, sown, hist, notReady(), asOf)
	require.NoError(t, err)

	// never-done events anchor at sowing: pest check (7d cadence) is further
	// overdue than fertilization (20d cadence), so it wins
	assert.Equal(t, EventPestCheck, next.Event)

	assert.True(t, next.RestrictionActive)
	assert.Equal(t, EventIrrigation, next.RestrictionEvent)
	require.NotNil(t, next.RestrictionUntil)
	assert.Equal(t, asOf.AddDate(0, 0, 1), *next.RestrictionUntil)

	for _, v := range next.Events {
		if v.Type == EventIrrigation {
			assert.Equal(t, StatusRestricted, v.Status)
		} else {
			assert.NotEqual(t, StatusRestricted, v.Status, v.Type)
		}
	}
}

// Restricting one event type never moves another's due date.
func TestScheduleRestrictionDoesNotShiftOtherDueDates(t *testing.T) {
	asOf := date(2025, 6, 30)
	sown := asOf.AddDate(0, 0, -30)

	bare, err := Schedule(DefaultPolicy(), StageVegetative, sown, EventHistory{}, notReady(), asOf)
	require.NoError(t, err)
	withIrr, err := Schedule(DefaultPolicy(), StageVegetative, sown,
		EventHistory{LastIrrigationAt: tp(asOf.AddDate(0, 0, -1))}, notReady(), asOf)
	require.NoError(t, err)

	dues := func(n NextAction) map[EventType]time.Time {
		out := map[EventType]time.Time{}
		for _, v := range n.Events {
			out[v.Type] = v.DueDate
		}
		return out
	}
	a, b := dues(bare), dues(withIrr)
	assert.Equal(t, a[EventFertilization], b[EventFertilization])
	assert.Equal(t, a[EventPestCheck], b[EventPestCheck])
}

func TestScheduleTieBreakPriority(t *testing.T) {
	asOf := date(2025, 7, 1)
	sown := asOf.AddDate(0, 0, -20)
	hist := EventHistory{
		// irrigation done 5 days ago: vegetative cadence 5 makes it due today,
		// cooldown (2d) long expired
		LastIrrigationAt: tp(asOf.AddDate(0, 0, -5)),
		// pest check yesterday: still cooling down, out of the running
		LastPestCheckAt: tp(asOf.AddDate(0, 0, -1)),
	}
	// fertilization never done, vegetative cadence 20 from sowing: due today too

	next, err := Schedule(DefaultPolicy(), StageVegetative, sown, hist, notReady(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 0, next.DaysUntil)
	assert.Equal(t, EventIrrigation, next.Event) // tie goes to irrigation

	// the badge shows the most recently logged event's cooldown
	assert.True(t, next.RestrictionActive)
	assert.Equal(t, EventPestCheck, next.RestrictionEvent)
}

func TestScheduleAllRestricted(t *testing.T) {
	asOf := date(2025, 7, 10)
	sown := asOf.AddDate(0, 0, -40)
	hist := EventHistory{
		LastIrrigationAt:    tp(asOf.AddDate(0, 0, -1)), // cooldown 2d, free tomorrow
		LastFertilizationAt: tp(asOf),                   // cooldown 7d
		LastPestCheckAt:     tp(asOf.AddDate(0, 0, -1)), // cooldown 3d
	}
	next, err := Schedule(DefaultPolicy(), StageVegetative, sown, hist, notReady(), asOf)
	require.NoError(t, err)

	assert.Equal(t, EventNone, next.Event)
	assert.Nil(t, next.DueDate)
	assert.True(t, next.RestrictionActive)
	// the soonest-expiring cooldown is surfaced for display
	assert.Equal(t, EventIrrigation, next.RestrictionEvent)
	require.NotNil(t, next.RestrictionUntil)
	assert.Equal(t, asOf.AddDate(0, 0, 1), *next.RestrictionUntil)
}

func TestScheduleHarvestOverridesEverything(t *testing.T) {
	asOf := date(2025, 3, 30)
	sown := date(2024, 11, 15)
	harvest := HarvestEstimate{ExpectedHarvestDate: date(2025, 3, 25), IsReady: true}
	hist := EventHistory{LastIrrigationAt: tp(asOf.AddDate(0, 0, -1))}

	next, err := Schedule(DefaultPolicy(), StageMaturity, sown, hist, harvest, asOf)
	require.NoError(t, err)
	assert.Equal(t, EventHarvesting, next.Event)
	require.NotNil(t, next.DueDate)
	assert.Equal(t, date(2025, 3, 25), *next.DueDate)
	// an active cooldown still shows alongside the harvest call
	assert.True(t, next.RestrictionActive)
	assert.Equal(t, EventIrrigation, next.RestrictionEvent)
}

func TestScheduleFloweringShortensIrrigationCooldown(t *testing.T) {
	asOf := date(2025, 7, 1)
	sown := asOf.AddDate(0, 0, -80)
	hist := EventHistory{LastIrrigationAt: tp(asOf.AddDate(0, 0, -1))}

	veg, err := Schedule(DefaultPolicy(), StageVegetative, sown, hist, notReady(), asOf)
	require.NoError(t, err)
	flo, err := Schedule(DefaultPolicy(), StageFlowering, sown, hist, notReady(), asOf)
	require.NoError(t, err)

	statusOf := func(n NextAction, ev EventType) EventStatus {
		for _, v := range n.Events {
			if v.Type == ev {
				return v.Status
			}
		}
		return ""
	}
	assert.Equal(t, StatusRestricted, statusOf(veg, EventIrrigation))    // 2-day cooldown
	assert.NotEqual(t, StatusRestricted, statusOf(flo, EventIrrigation)) // 1-day cooldown already over
}

func TestScheduleRejectsEventBeforeSowing(t *testing.T) {
	asOf := date(2025, 7, 1)
	sown := date(2025, 6, 1)
	hist := EventHistory{LastFertilizationAt: tp(date(2025, 5, 20))}
	_, err := Schedule(DefaultPolicy(), StageSeedling, sown, hist, notReady(), asOf)
	require.ErrorIs(t, err, ErrInconsistentEventHistory)
}

func TestValidateEventTime(t *testing.T) {
	sown := date(2025, 6, 1)
	require.NoError(t, ValidateEventTime(sown, sown))
	require.NoError(t, ValidateEventTime(sown, sown.AddDate(0, 0, 10)))
	require.ErrorIs(t, ValidateEventTime(sown, sown.AddDate(0, 0, -1)), ErrInconsistentEventHistory)
}
