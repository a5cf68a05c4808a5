// Package deepdiff computes structural diffs between snapshots of
// versioned, nested records and applies them forward or backward as
// reversible deltas. Snapshots are converted to the closed canonical
// model in canon; the engine itself is pure computation with no I/O.
package deepdiff

import (
	"github.com/toninf/sqalchemy-deepdiff/canon"
	"github.com/toninf/sqalchemy-deepdiff/delta"
	"github.com/toninf/sqalchemy-deepdiff/diff"
)

// Diff computes the change set taking a to b.
func Diff(a, b *canon.Value, opts ...diff.Option) diff.ChangeSet {
	return diff.Diff(a, b, opts...)
}

// DiffSnapshots converts two domain snapshots at the boundary and
// diffs their canonical forms.
func DiffSnapshots(a, b any, opts ...diff.Option) (diff.ChangeSet, error) {
	ca, err := canon.FromGo(a)
	if err != nil {
		return nil, err
	}
	cb, err := canon.FromGo(b)
	if err != nil {
		return nil, err
	}
	return diff.Diff(ca, cb, opts...), nil
}

// Apply replays a change set forward against the snapshot it was
// computed from, returning the new snapshot.
func Apply(cs diff.ChangeSet, v *canon.Value) (*canon.Value, error) {
	return delta.From(cs).Apply(v)
}

// Revert rolls a change set back: applied to the "after" snapshot it
// reconstructs the "before" one exactly, provided nothing else changed
// in between.
func Revert(cs diff.ChangeSet, v *canon.Value) (*canon.Value, error) {
	return delta.From(cs).ApplyInverse(v)
}
