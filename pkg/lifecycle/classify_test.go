package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFreshCrop(t *testing.T) {
	tbl := DefaultTimelines()
	asOf := date(2025, 6, 10)

	for _, daysAgo := range []int{0, 3, 7} {
		cls, err := Classify(tbl, "wheat", asOf.AddDate(0, 0, -daysAgo), RegistrationNew, asOf)
		require.NoError(t, err, "sown %d days ago", daysAgo)
		assert.False(t, cls.IsLate)
		assert.Equal(t, daysAgo, cls.DaysAfterSowing)
		assert.Empty(t, cls.InferredStage)
	}
}

// Spec scenario: sown 10 days ago but declared "new" is a conflict returned
// to the caller, never silently fixed up.
func TestClassifyLateDeclaredNewConflicts(t *testing.T) {
	tbl := DefaultTimelines()
	asOf := date(2025, 6, 10)
	_, err := Classify(tbl, "wheat", asOf.AddDate(0, 0, -10), RegistrationNew, asOf)
	require.ErrorIs(t, err, ErrRegistrationModeConflict)
}

func TestClassifyLateExistingInfersStage(t *testing.T) {
	tbl := DefaultTimelines()
	asOf := date(2025, 6, 10)

	cls, err := Classify(tbl, "wheat", asOf.AddDate(0, 0, -10), RegistrationExisting, asOf)
	require.NoError(t, err)
	assert.True(t, cls.IsLate)
	assert.Equal(t, StageSeedling, cls.InferredStage) // wheat day 10

	cls, err = Classify(tbl, "wheat", asOf.AddDate(0, 0, -60), RegistrationExisting, asOf)
	require.NoError(t, err)
	assert.Equal(t, StageTillering, cls.InferredStage)
}

func TestClassifyExistingWithinWindowIsAllowed(t *testing.T) {
	tbl := DefaultTimelines()
	asOf := date(2025, 6, 10)
	cls, err := Classify(tbl, "wheat", asOf.AddDate(0, 0, -2), RegistrationExisting, asOf)
	require.NoError(t, err)
	assert.False(t, cls.IsLate)
}

func TestClassifyRejectsFutureSowing(t *testing.T) {
	tbl := DefaultTimelines()
	asOf := date(2025, 6, 10)
	_, err := Classify(tbl, "wheat", asOf.AddDate(0, 0, 2), RegistrationNew, asOf)
	require.ErrorIs(t, err, ErrInvalidSowingDate)
}

func TestClassifyRejectsUnknownMode(t *testing.T) {
	tbl := DefaultTimelines()
	asOf := date(2025, 6, 10)
	_, err := Classify(tbl, "wheat", asOf, RegistrationMode("transplanted"), asOf)
	require.Error(t, err)
}
