package diff

import (
	"github.com/toninf/sqalchemy-deepdiff/canon"
	"github.com/toninf/sqalchemy-deepdiff/debug"
)

type Option func(*config)

type config struct {
	ignoreOrder bool
}

// IgnoreOrder selects the order-insensitive sequence mode: sequences
// compare as multisets keyed by structural equality, so pure
// reordering produces no operations and repetition differences are
// reported once with a count. It applies to every sequence reached by
// the diff call; it is never auto-detected.
func IgnoreOrder(v bool) Option {
	return func(c *config) { c.ignoreOrder = v }
}

// Diff compares two canonical trees and returns the ordered change
// set taking a to b. A nil tree compares as the null value. It never
// fails on well-formed (acyclic) trees; cyclic inputs are a
// conversion-boundary precondition.
func Diff(a, b *canon.Value, opts ...Option) ChangeSet {
	if a == nil {
		a = canon.Null()
	}
	if b == nil {
		b = canon.Null()
	}
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	d := &differ{cfg: cfg}
	res := d.diff(canon.Path{}, a, b, nil)
	if debug.Diff() {
		debug.Logf("diff ignoreOrder=%v ops=%d\n", cfg.ignoreOrder, len(res))
	}
	return res
}

type differ struct {
	cfg *config
}

func (d *differ) diff(path canon.Path, a, b *canon.Value, dst ChangeSet) ChangeSet {
	if a.Kind != b.Kind {
		// a structural replacement; no recursion into either subtree
		return append(dst, Op{
			Kind: Changed,
			Path: path,
			Old:  a.Clone(),
			New:  b.Clone(),
		})
	}
	switch a.Kind {
	case canon.RecordKind:
		return d.diffRecord(path, a, b, dst)
	case canon.SequenceKind:
		if d.cfg.ignoreOrder {
			return d.diffMultiset(path, a, b, dst)
		}
		return d.diffSequence(path, a, b, dst)
	default:
		if canon.Equal(a, b) {
			return dst
		}
		return append(dst, Op{
			Kind: Changed,
			Path: path,
			Old:  a.Clone(),
			New:  b.Clone(),
		})
	}
}

// record members walk in a's field order (recurse or remove), then
// b-only members in b's order (add).
func (d *differ) diffRecord(path canon.Path, a, b *canon.Value, dst ChangeSet) ChangeSet {
	for i, name := range a.Fields {
		bv := b.Get(name)
		if bv == nil {
			dst = append(dst, Op{
				Kind:  Removed,
				Path:  path.Key(name),
				Value: a.Values[i].Clone(),
			})
			continue
		}
		dst = d.diff(path.Key(name), a.Values[i], bv, dst)
	}
	for i, name := range b.Fields {
		if a.Get(name) != nil {
			continue
		}
		dst = append(dst, Op{
			Kind:  Added,
			Path:  path.Key(name),
			Value: b.Values[i].Clone(),
		})
	}
	return dst
}

// order-sensitive: indices walk 0..max(len); shared indices recurse,
// the longer side's tail becomes adds or removals.
func (d *differ) diffSequence(path canon.Path, a, b *canon.Value, dst ChangeSet) ChangeSet {
	n := max(len(a.Values), len(b.Values))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(a.Values):
			dst = append(dst, Op{
				Kind:  Added,
				Path:  path.At(i),
				Value: b.Values[i].Clone(),
			})
		case i >= len(b.Values):
			dst = append(dst, Op{
				Kind:  Removed,
				Path:  path.At(i),
				Value: a.Values[i].Clone(),
			})
		default:
			dst = d.diff(path.At(i), a.Values[i], b.Values[i], dst)
		}
	}
	return dst
}

// order-insensitive: count elements by their canonical encoding and
// report the per-value count difference once. Membership is the unit
// of change here, so no recursion into unequal elements.
func (d *differ) diffMultiset(path canon.Path, a, b *canon.Value, dst ChangeSet) ChangeSet {
	type group struct {
		val *canon.Value
		ca  int
		cb  int
	}
	groups := map[string]*group{}
	var order []string

	add := func(v *canon.Value, inA bool) {
		key := v.String()
		g, ok := groups[key]
		if !ok {
			g = &group{val: v}
			groups[key] = g
			order = append(order, key)
		}
		if inA {
			g.ca++
		} else {
			g.cb++
		}
	}
	for _, v := range a.Values {
		add(v, true)
	}
	for _, v := range b.Values {
		add(v, false)
	}

	for _, key := range order {
		g := groups[key]
		switch {
		case g.cb > g.ca:
			dst = append(dst, Op{
				Kind:  Added,
				Path:  path,
				Value: g.val.Clone(),
				Count: g.cb - g.ca,
			})
		case g.ca > g.cb:
			dst = append(dst, Op{
				Kind:  Removed,
				Path:  path,
				Value: g.val.Clone(),
				Count: g.ca - g.cb,
			})
		}
	}
	return dst
}
