package plant

import "errors"

// Domain errors for the plant package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, plant.ErrFermenterNotFound) {
//	    // handle unknown vessel id
//	}
var (
	// ErrFermenterNotFound is returned when a vessel id is outside 1..FermenterCount.
	ErrFermenterNotFound = errors.New("plant: fermenter not found")

	// ErrRelayNotFound is returned when a relay name does not match any channel.
	ErrRelayNotFound = errors.New("plant: relay not found")

	// ErrOutputNotFound is returned when an output id is outside 1..OutputCount.
	ErrOutputNotFound = errors.New("plant: output not found")

	// ErrInvalidMode is returned when a mode value is not recognised.
	ErrInvalidMode = errors.New("plant: invalid mode")
)
