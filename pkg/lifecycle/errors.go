package lifecycle

import "errors"

// Every bad input comes from user-entered data, so derivation failures are
// returned as typed errors the caller can match with errors.Is and re-prompt
// for. Nothing here is fatal to the process.
var (
	ErrInvalidSowingDate        = errors.New("invalid sowing date")        // sowing date after as_of
	ErrInvalidDuration          = errors.New("invalid duration")           // duration_days < 1
	ErrInconsistentEventHistory = errors.New("inconsistent event history") // care event before sowing
	ErrRegistrationModeConflict = errors.New("registration mode conflict") // declared "new" but sown too long ago
)
