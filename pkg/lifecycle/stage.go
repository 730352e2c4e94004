package lifecycle

import "fmt"

type Stage string

const (
	StageGermination  Stage = "germination"
	StageSeedling     Stage = "seedling"
	StageVegetative   Stage = "vegetative"
	StageTillering    Stage = "tillering"
	StageFlowering    Stage = "flowering"
	StageGrainFilling Stage = "grain_filling"
	StageMaturity     Stage = "maturity"
)

// Stages in growth order. A crop only ever moves forward through this list.
var Stages = []Stage{
	StageGermination, StageSeedling, StageVegetative,
	StageTillering, StageFlowering, StageGrainFilling, StageMaturity,
}

// Index returns the position in growth order, or -1 for an unknown stage.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Stage) Valid() bool { return s.Index() >= 0 }

// ResolveStage maps days-after-sowing to a growth stage using the crop's
// timeline (unknown crop types use the default timeline). The first cutoff
// not yet exceeded wins; past the grain-filling cutoff the crop is mature.
// A negative day count means the sowing date is in the future, which is a
// data-entry mistake the operator has to see, not something to clamp away.
func (t *TimelineTable) ResolveStage(cropType string, daysAfterSowing int) (Stage, error) {
	if daysAfterSowing < 0 {
		return "", fmt.Errorf("%w: sowing date is %d day(s) in the future", ErrInvalidSowingDate, -daysAfterSowing)
	}
	tl, _ := t.Lookup(cropType)
	for i, cut := range tl.cutoffs() {
		if daysAfterSowing <= cut {
			return Stages[i], nil
		}
	}
	return StageMaturity, nil
}
