package leads

import (
	"errors"
	"fmt"
)

// ErrClosedLead is returned when a transition targets a closed lead.
var ErrClosedLead = errors.New("closed leads cannot change status")

// ValidateTransition decides whether a lead may move between statuses. The
// current policy is deliberately permissive so staff can correct mistakes:
// any non-closed lead may be marked contacted or converted, including
// regressions and skips. Tightening the pipeline later only touches this
// function.
func ValidateTransition(from, to Status) error {
	if !from.Known() {
		return fmt.Errorf("unknown current status %q", from)
	}
	if from == StatusClosed {
		return ErrClosedLead
	}
	if to != StatusContacted && to != StatusConverted {
		return fmt.Errorf("status %q is not a valid target", to)
	}
	return nil
}
