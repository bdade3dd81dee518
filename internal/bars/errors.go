package bars

import (
	"errors"
	"fmt"
)

// ErrStaleSelection matches every StaleSelectionError via errors.Is.
var ErrStaleSelection = errors.New("stale selection")

// StaleSelectionError reports a menu token whose index does not exist in the
// chat's current results, e.g. a button from an older search or from before
// the session expired.
type StaleSelectionError struct {
	Token string
	Index int
	Count int
}

func (e *StaleSelectionError) Error() string {
	return fmt.Sprintf("stale selection %s: index %d outside 1..%d", e.Token, e.Index, e.Count)
}

// Code is picked up by the router and event loop when logging.
func (e *StaleSelectionError) Code() string { return "STALE_SELECTION" }

// Is makes errors.Is(err, ErrStaleSelection) hold.
func (e *StaleSelectionError) Is(target error) bool { return target == ErrStaleSelection }
