// Package diff computes ordered, path-addressed change sets between two
// canonical value trees.
package diff

import (
	"fmt"

	"github.com/toninf/sqalchemy-deepdiff/canon"
)

type OpKind int

const (
	Changed OpKind = iota
	Added
	Removed
)

func (k OpKind) String() string {
	s, ok := map[OpKind]string{
		Changed: "changed",
		Added:   "added",
		Removed: "removed",
	}[k]
	if ok {
		return s
	}
	return "<unknown op>"
}

func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *OpKind) UnmarshalText(d []byte) error {
	kk, ok := map[string]OpKind{
		"changed": Changed,
		"added":   Added,
		"removed": Removed,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized op %q", d)
	}
	*k = kk
	return nil
}

// Op is one discrepancy between the old and new snapshot.
//
// Changed carries Old and New. Added and Removed carry Value; when
// Count is zero the path's last step addresses the member itself
// (record field or sequence index), while Count >= 1 marks an
// order-insensitive sequence op whose path addresses the sequence and
// whose Count is the repetition difference.
type Op struct {
	Kind  OpKind
	Path  canon.Path
	Old   *canon.Value
	New   *canon.Value
	Value *canon.Value
	Count int
}

func (op *Op) String() string {
	switch op.Kind {
	case Changed:
		return fmt.Sprintf("~ %s: %s -> %s", op.Path, op.Old, op.New)
	case Added:
		if op.Count > 0 {
			return fmt.Sprintf("+ %s: %s (x%d)", op.Path, op.Value, op.Count)
		}
		return fmt.Sprintf("+ %s: %s", op.Path, op.Value)
	case Removed:
		if op.Count > 0 {
			return fmt.Sprintf("- %s: %s (x%d)", op.Path, op.Value, op.Count)
		}
		return fmt.Sprintf("- %s: %s", op.Path, op.Value)
	default:
		panic("op")
	}
}

// ChangeSet is the ordered outcome of one diff: operations appear in
// the depth-first pre-order in which discrepancies were found, so two
// computations over equal inputs produce identical change sets.
type ChangeSet []Op

func (cs ChangeSet) Empty() bool {
	return len(cs) == 0
}
