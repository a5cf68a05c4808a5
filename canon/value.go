// Package canon holds the canonical value model: every snapshot the
// engine compares is first mapped onto a tree of *Value nodes. The
// variant set is closed (scalar kinds, sequences, records) so the diff
// and delta packages never see domain types.
package canon

// Value is a tagged union over all snapshot shapes. Records keep their
// fields in insertion order in Fields/Values; sequences use Values
// alone. Scalar payloads live in the field matching the Kind.
//
// Values handed to Diff/Apply are treated as immutable; the mutating
// helpers below exist for building trees and for the delta package,
// which only ever edits clones.
type Value struct {
	Kind Kind

	Fields []string
	Values []*Value

	Str     string
	Bool    bool
	Int64   int64
	Float64 float64
	Date    string
}

// DateLayout is the canonical calendar-date form carried by DateKind
// scalars and by the wire representation of dates.
const DateLayout = "2006-01-02"

func FromString(v string) *Value {
	return &Value{Kind: StringKind, Str: v}
}

func FromInt(v int64) *Value {
	return &Value{Kind: IntKind, Int64: v}
}

func FromFloat(v float64) *Value {
	return &Value{Kind: FloatKind, Float64: v}
}

func FromBool(v bool) *Value {
	return &Value{Kind: BoolKind, Bool: v}
}

// FromDate takes a YYYY-MM-DD string. Validation happens at the
// conversion boundary; this constructor stores what it is given.
func FromDate(v string) *Value {
	return &Value{Kind: DateKind, Date: v}
}

func Null() *Value {
	return &Value{Kind: NullKind}
}

type Field struct {
	Name  string
	Value *Value
}

// FromFields builds a record preserving the given field order.
// A later duplicate name overwrites the earlier one in place.
func FromFields(fields []Field) *Value {
	res := &Value{Kind: RecordKind}
	for _, f := range fields {
		res.SetField(f.Name, f.Value)
	}
	return res
}

func FromSlice(vals []*Value) *Value {
	res := &Value{Kind: SequenceKind}
	res.Values = append(res.Values, vals...)
	return res
}

// Get returns the record member named field, or nil.
func (v *Value) Get(field string) *Value {
	for i := range v.Fields {
		if v.Fields[i] == field {
			return v.Values[i]
		}
	}
	return nil
}

// SetField sets or appends a record member.
func (v *Value) SetField(name string, val *Value) {
	for i := range v.Fields {
		if v.Fields[i] == name {
			v.Values[i] = val
			return
		}
	}
	v.Fields = append(v.Fields, name)
	v.Values = append(v.Values, val)
}

// RemoveField removes a record member, reporting whether it was present.
func (v *Value) RemoveField(name string) bool {
	for i := range v.Fields {
		if v.Fields[i] != name {
			continue
		}
		v.Fields = append(v.Fields[:i], v.Fields[i+1:]...)
		v.Values = append(v.Values[:i], v.Values[i+1:]...)
		return true
	}
	return false
}

// InsertAt inserts a sequence element at i, shifting later elements.
func (v *Value) InsertAt(i int, val *Value) {
	v.Values = append(v.Values, nil)
	copy(v.Values[i+1:], v.Values[i:])
	v.Values[i] = val
}

// RemoveAt removes the sequence element at i.
func (v *Value) RemoveAt(i int) {
	v.Values = append(v.Values[:i], v.Values[i+1:]...)
}

func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	res := &Value{
		Kind:    v.Kind,
		Str:     v.Str,
		Bool:    v.Bool,
		Int64:   v.Int64,
		Float64: v.Float64,
		Date:    v.Date,
	}
	if v.Fields != nil {
		res.Fields = make([]string, len(v.Fields))
		copy(res.Fields, v.Fields)
	}
	if v.Values != nil {
		res.Values = make([]*Value, len(v.Values))
		for i, vv := range v.Values {
			res.Values[i] = vv.Clone()
		}
	}
	return res
}

// Equal is structural and kind-sensitive: a string "5" never equals the
// integer 5 and a date never equals its plain-string spelling. Record
// field order is not significant; sequence order is.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case NullKind:
		return true
	case IntKind:
		return a.Int64 == b.Int64
	case FloatKind:
		return a.Float64 == b.Float64
	case StringKind:
		return a.Str == b.Str
	case BoolKind:
		return a.Bool == b.Bool
	case DateKind:
		return a.Date == b.Date
	case SequenceKind:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case RecordKind:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i, name := range a.Fields {
			bv := b.Get(name)
			if bv == nil {
				return false
			}
			if !Equal(a.Values[i], bv) {
				return false
			}
		}
		return true
	default:
		panic("kind")
	}
}

// Visit runs f over the tree in pre- and post-order; returning false
// from the pre-order call skips the subtree.
func (v *Value) Visit(f func(v *Value, isPost bool) (bool, error)) error {
	dive, err := f(v, false)
	if err != nil {
		return err
	}
	if dive {
		for _, vv := range v.Values {
			if err := vv.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(v, true); err != nil {
		return err
	}
	return nil
}
