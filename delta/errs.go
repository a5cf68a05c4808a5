package delta

import (
	"fmt"

	"github.com/toninf/sqalchemy-deepdiff/canon"
)

// ConflictError means the snapshot being patched has diverged from the
// one the change set was computed against: the value found at Path did
// not match the recorded precondition. It is never resolved silently.
type ConflictError struct {
	Path canon.Path
	Want *canon.Value
	Got  *canon.Value
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict at %s: want %s, got %s", e.Path, e.Want, e.Got)
}

// PathError means a change set addresses a location the target
// snapshot does not have, e.g. when replaying against an unrelated
// snapshot.
type PathError struct {
	Path   canon.Path
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("no value at %s: %s", e.Path, e.Reason)
}
