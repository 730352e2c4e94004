package lifecycle

import (
	"fmt"
	"time"
)

type RegistrationMode string

const (
	RegistrationNew      RegistrationMode = "new"      // freshly sown, starts at germination
	RegistrationExisting RegistrationMode = "existing" // registered late, stage estimated
)

// LateRegistrationDays is how far back a sowing date can be and still count
// as a fresh registration.
const LateRegistrationDays = 7

type Classification struct {
	IsLate          bool  `json:"is_late"`
	DaysAfterSowing int   `json:"days_after_sowing"`
	InferredStage   Stage `json:"inferred_stage,omitempty"`
}

// Classify runs once at crop creation. A crop sown more than
// LateRegistrationDays ago must be registered as "existing" so it gets a
// believable starting stage; declaring it "new" is a conflict returned to the
// caller for correction, never silently overridden. The inferred stage is
// only a pre-populated suggestion the owner may override once at creation.
func Classify(tbl *TimelineTable, cropType string, sowingDate time.Time, declared RegistrationMode, asOf time.Time) (Classification, error) {
	if declared != RegistrationNew && declared != RegistrationExisting {
		return Classification{}, fmt.Errorf("unknown registration mode %q", declared)
	}
	das := daysBetween(sowingDate, asOf)
	if das < 0 {
		return Classification{}, fmt.Errorf("%w: sowing date %s is after %s",
			ErrInvalidSowingDate, sowingDate.Format("2006-01-02"), asOf.Format("2006-01-02"))
	}

	out := Classification{IsLate: das > LateRegistrationDays, DaysAfterSowing: das}
	if !out.IsLate {
		return out, nil
	}
	if declared == RegistrationNew {
		return Classification{}, fmt.Errorf("%w: sown %d days ago, more than %d; register as existing",
			ErrRegistrationModeConflict, das, LateRegistrationDays)
	}
	st, err := tbl.ResolveStage(cropType, das)
	if err != nil {
		return Classification{}, err
	}
	out.InferredStage = st
	return out, nil
}
