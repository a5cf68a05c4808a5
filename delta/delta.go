// Package delta turns a change set into a bidirectional patch: Apply
// replays it forward, ApplyInverse rolls it back. Both are pure; the
// input tree is never touched and errors leave no partial result.
package delta

import (
	"github.com/toninf/sqalchemy-deepdiff/canon"
	"github.com/toninf/sqalchemy-deepdiff/debug"
	"github.com/toninf/sqalchemy-deepdiff/diff"
)

type Delta struct {
	ops diff.ChangeSet
}

func From(cs diff.ChangeSet) *Delta {
	return &Delta{ops: cs}
}

func (d *Delta) ChangeSet() diff.ChangeSet {
	return d.ops
}

// Apply interprets the wrapped change set as old -> new and produces
// the new snapshot from v.
func (d *Delta) Apply(v *canon.Value) (*canon.Value, error) {
	res := v.Clone()
	for _, op := range d.orderedOps(false) {
		var err error
		res, err = applyOp(res, op, false)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ApplyInverse swaps the role of old and new per operation: changes
// restore their old value, additions become checked removals and
// removals become insertions. Operations run in reverse change-set
// order so sequence index shifts undo consistently.
func (d *Delta) ApplyInverse(v *canon.Value) (*canon.Value, error) {
	res := v.Clone()
	for _, op := range d.orderedOps(true) {
		var err error
		res, err = applyOp(res, op, true)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// orderedOps yields the operations in application order. The differ
// discovers sequence tail removals at ascending indices, recorded
// against the pre-removal snapshot; checked application needs them
// descending going forward and ascending (as insertions) going
// backward. With the base order reversed for the inverse direction,
// both cases come down to reversing each run of index removals that
// share a parent sequence.
func (d *Delta) orderedOps(inverse bool) []*diff.Op {
	ops := make([]*diff.Op, len(d.ops))
	for i := range d.ops {
		ops[i] = &d.ops[i]
	}
	if inverse {
		reverseOps(ops)
	}
	for i := 0; i < len(ops); {
		if !isIndexRemoval(ops[i]) {
			i++
			continue
		}
		j := i + 1
		for j < len(ops) && isIndexRemoval(ops[j]) && sameParent(ops[i], ops[j]) {
			j++
		}
		reverseOps(ops[i:j])
		i = j
	}
	return ops
}

func reverseOps(ops []*diff.Op) {
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
}

func isIndexRemoval(op *diff.Op) bool {
	return op.Kind == diff.Removed && op.Count == 0 &&
		len(op.Path) > 0 && op.Path[len(op.Path)-1].Index != nil
}

func sameParent(a, b *diff.Op) bool {
	return a.Path[:len(a.Path)-1].Equal(b.Path[:len(b.Path)-1])
}

func applyOp(root *canon.Value, op *diff.Op, inverse bool) (*canon.Value, error) {
	if debug.Apply() {
		debug.Logf("apply %s inverse=%v\n", op, inverse)
	}
	switch op.Kind {
	case diff.Changed:
		want, repl := op.Old, op.New
		if inverse {
			want, repl = repl, want
		}
		return replaceAt(root, op.Path, want, repl)
	case diff.Added:
		if inverse {
			return root, removeOp(root, op)
		}
		return root, insertOp(root, op)
	case diff.Removed:
		if inverse {
			return root, insertOp(root, op)
		}
		return root, removeOp(root, op)
	default:
		panic("op")
	}
}

func replaceAt(root *canon.Value, path canon.Path, want, repl *canon.Value) (*canon.Value, error) {
	if len(path) == 0 {
		if !canon.Equal(root, want) {
			return nil, &ConflictError{Path: path, Want: want, Got: root}
		}
		return repl.Clone(), nil
	}
	parent, err := walkTo(root, path, len(path)-1)
	if err != nil {
		return nil, err
	}
	last := path[len(path)-1]
	switch {
	case last.Field != nil:
		if parent.Kind != canon.RecordKind {
			return nil, &PathError{Path: path, Reason: "parent is not a record"}
		}
		cur := parent.Get(*last.Field)
		if cur == nil {
			return nil, &PathError{Path: path, Reason: "no such field"}
		}
		if !canon.Equal(cur, want) {
			return nil, &ConflictError{Path: path, Want: want, Got: cur}
		}
		parent.SetField(*last.Field, repl.Clone())
	case last.Index != nil:
		if parent.Kind != canon.SequenceKind {
			return nil, &PathError{Path: path, Reason: "parent is not a sequence"}
		}
		i := *last.Index
		if i < 0 || i >= len(parent.Values) {
			return nil, &PathError{Path: path, Reason: "index out of bounds"}
		}
		if !canon.Equal(parent.Values[i], want) {
			return nil, &ConflictError{Path: path, Want: want, Got: parent.Values[i]}
		}
		parent.Values[i] = repl.Clone()
	default:
		return nil, &PathError{Path: path, Reason: "empty step"}
	}
	return root, nil
}

func insertOp(root *canon.Value, op *diff.Op) error {
	if op.Count > 0 {
		// order-insensitive: the path addresses the sequence itself
		target, err := walkCreate(root, op.Path, canon.SequenceKind)
		if err != nil {
			return err
		}
		if target.Kind != canon.SequenceKind {
			return &PathError{Path: op.Path, Reason: "not a sequence"}
		}
		for n := 0; n < op.Count; n++ {
			target.Values = append(target.Values, op.Value.Clone())
		}
		return nil
	}
	if len(op.Path) == 0 {
		return &PathError{Path: op.Path, Reason: "cannot add at root"}
	}
	last := op.Path[len(op.Path)-1]
	parentKind := canon.RecordKind
	if last.Index != nil {
		parentKind = canon.SequenceKind
	}
	parent, err := walkCreateTo(root, op.Path, len(op.Path)-1, parentKind)
	if err != nil {
		return err
	}
	switch {
	case last.Field != nil:
		if parent.Kind != canon.RecordKind {
			return &PathError{Path: op.Path, Reason: "parent is not a record"}
		}
		if cur := parent.Get(*last.Field); cur != nil {
			return &ConflictError{Path: op.Path, Want: nil, Got: cur}
		}
		parent.SetField(*last.Field, op.Value.Clone())
	case last.Index != nil:
		if parent.Kind != canon.SequenceKind {
			return &PathError{Path: op.Path, Reason: "parent is not a sequence"}
		}
		i := *last.Index
		if i < 0 || i > len(parent.Values) {
			return &PathError{Path: op.Path, Reason: "index out of bounds"}
		}
		parent.InsertAt(i, op.Value.Clone())
	default:
		return &PathError{Path: op.Path, Reason: "empty step"}
	}
	return nil
}

func removeOp(root *canon.Value, op *diff.Op) error {
	if op.Count > 0 {
		target, err := walkTo(root, op.Path, len(op.Path))
		if err != nil {
			return err
		}
		if target.Kind != canon.SequenceKind {
			return &PathError{Path: op.Path, Reason: "not a sequence"}
		}
		// remove the later occurrences first so the scan is stable
		removed := 0
		for i := len(target.Values) - 1; i >= 0 && removed < op.Count; i-- {
			if canon.Equal(target.Values[i], op.Value) {
				target.RemoveAt(i)
				removed++
			}
		}
		if removed < op.Count {
			return &ConflictError{Path: op.Path, Want: op.Value, Got: target}
		}
		return nil
	}
	if len(op.Path) == 0 {
		return &PathError{Path: op.Path, Reason: "cannot remove root"}
	}
	parent, err := walkTo(root, op.Path, len(op.Path)-1)
	if err != nil {
		return err
	}
	last := op.Path[len(op.Path)-1]
	switch {
	case last.Field != nil:
		if parent.Kind != canon.RecordKind {
			return &PathError{Path: op.Path, Reason: "parent is not a record"}
		}
		cur := parent.Get(*last.Field)
		if cur == nil {
			return &PathError{Path: op.Path, Reason: "no such field"}
		}
		if !canon.Equal(cur, op.Value) {
			return &ConflictError{Path: op.Path, Want: op.Value, Got: cur}
		}
		parent.RemoveField(*last.Field)
	case last.Index != nil:
		if parent.Kind != canon.SequenceKind {
			return &PathError{Path: op.Path, Reason: "parent is not a sequence"}
		}
		i := *last.Index
		if i < 0 || i >= len(parent.Values) {
			return &PathError{Path: op.Path, Reason: "index out of bounds"}
		}
		if !canon.Equal(parent.Values[i], op.Value) {
			return &ConflictError{Path: op.Path, Want: op.Value, Got: parent.Values[i]}
		}
		parent.RemoveAt(i)
	default:
		return &PathError{Path: op.Path, Reason: "empty step"}
	}
	return nil
}

// walkTo follows the first n steps of path without creating anything.
func walkTo(root *canon.Value, path canon.Path, n int) (*canon.Value, error) {
	res := root
	for _, s := range path[:n] {
		switch {
		case s.Field != nil:
			if res.Kind != canon.RecordKind {
				return nil, &PathError{Path: path, Reason: "not a record at ." + *s.Field}
			}
			res = res.Get(*s.Field)
			if res == nil {
				return nil, &PathError{Path: path, Reason: "no field " + *s.Field}
			}
		case s.Index != nil:
			if res.Kind != canon.SequenceKind {
				return nil, &PathError{Path: path, Reason: "not a sequence"}
			}
			i := *s.Index
			if i < 0 || i >= len(res.Values) {
				return nil, &PathError{Path: path, Reason: "index out of bounds"}
			}
			res = res.Values[i]
		default:
			return nil, &PathError{Path: path, Reason: "empty step"}
		}
	}
	return res, nil
}

func walkCreate(root *canon.Value, path canon.Path, finalKind canon.Kind) (*canon.Value, error) {
	return walkCreateTo(root, path, len(path), finalKind)
}

// walkCreateTo follows the first n steps of path, creating missing
// record members as empty containers on the way. Only record fields
// are ever created; missing sequence positions are path errors.
func walkCreateTo(root *canon.Value, path canon.Path, n int, finalKind canon.Kind) (*canon.Value, error) {
	res := root
	for hop, s := range path[:n] {
		switch {
		case s.Field != nil:
			if res.Kind != canon.RecordKind {
				return nil, &PathError{Path: path, Reason: "not a record at ." + *s.Field}
			}
			next := res.Get(*s.Field)
			if next == nil {
				next = &canon.Value{Kind: containerKind(path, hop+1, n, finalKind)}
				res.SetField(*s.Field, next)
			}
			res = next
		case s.Index != nil:
			if res.Kind != canon.SequenceKind {
				return nil, &PathError{Path: path, Reason: "not a sequence"}
			}
			i := *s.Index
			if i < 0 || i >= len(res.Values) {
				return nil, &PathError{Path: path, Reason: "index out of bounds"}
			}
			res = res.Values[i]
		default:
			return nil, &PathError{Path: path, Reason: "empty step"}
		}
	}
	return res, nil
}

func containerKind(path canon.Path, next, n int, finalKind canon.Kind) canon.Kind {
	if next >= n {
		return finalKind
	}
	if path[next].Index != nil {
		return canon.SequenceKind
	}
	return canon.RecordKind
}
