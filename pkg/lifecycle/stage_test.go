package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStageWheat(t *testing.T) {
	tbl := DefaultTimelines()
	cases := []struct {
		days int
		want Stage
	}{
		{0, StageGermination},
		{7, StageGermination},
		{8, StageSeedling},
		{25, StageSeedling},
		{26, StageVegetative},
		{50, StageVegetative},
		{60, StageTillering},
		{80, StageFlowering},
		{100, StageGrainFilling},
		{115, StageGrainFilling},
		{116, StageMaturity},
		{400, StageMaturity},
	}
	for _, tc := range cases {
		got, err := tbl.ResolveStage("wheat", tc.days)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "day %d", tc.days)
	}
}

func TestResolveStageRejectsFutureSowing(t *testing.T) {
	tbl := DefaultTimelines()
	_, err := tbl.ResolveStage("wheat", -1)
	require.ErrorIs(t, err, ErrInvalidSowingDate)
}

func TestResolveStageUnknownCropUsesDefault(t *testing.T) {
	tbl := DefaultTimelines()
	st, err := tbl.ResolveStage("dragonfruit", 5)
	require.NoError(t, err)
	assert.Equal(t, StageGermination, st)

	st, err = tbl.ResolveStage("dragonfruit", 500)
	require.NoError(t, err)
	assert.Equal(t, StageMaturity, st)
}

func TestResolveStageMonotonic(t *testing.T) {
	tbl := DefaultTimelines()
	for _, crop := range []string{"wheat", "rice", "maize", "sugarcane", "not_in_table"} {
		prev := -1
		for d := 0; d <= 400; d++ {
			st, err := tbl.ResolveStage(crop, d)
			require.NoError(t, err)
			idx := st.Index()
			require.GreaterOrEqual(t, idx, prev, "%s regressed at day %d", crop, d)
			prev = idx
		}
	}
}

func TestStageIndexOrder(t *testing.T) {
	assert.Equal(t, 0, StageGermination.Index())
	assert.Equal(t, 6, StageMaturity.Index())
	assert.Equal(t, -1, Stage("ripening").Index())
	assert.False(t, Stage("ripening").Valid())
}
