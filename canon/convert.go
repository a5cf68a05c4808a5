package canon

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"
)

// ConversionError reports a domain snapshot that has no canonical
// mapping: an unsupported Go type, a cyclic reference, or a
// non-representable number.
type ConversionError struct {
	GoType string
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s: %s", e.GoType, e.Reason)
}

// Canonicalizer lets domain types supply their own canonical form.
type Canonicalizer interface {
	Canonical() (*Value, error)
}

// FromGo maps a dynamically-typed snapshot, as produced by an ORM or a
// decoded YAML/JSON document, onto the canonical model. Maps with
// string keys and structs become records (sorted keys, so conversion
// is deterministic), slices become sequences, time.Time becomes a
// date scalar. The same input always yields structurally equal trees.
func FromGo(v any) (*Value, error) {
	c := &converter{seen: map[uintptr]bool{}}
	return c.convert(v)
}

type converter struct {
	seen map[uintptr]bool
}

func (c *converter) convert(v any) (*Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Value:
		return x.Clone(), nil
	case Canonicalizer:
		return x.Canonical()
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return c.convertUint(uint64(x))
	case uint8:
		return FromInt(int64(x)), nil
	case uint16:
		return FromInt(int64(x)), nil
	case uint32:
		return FromInt(int64(x)), nil
	case uint64:
		return c.convertUint(x)
	case float32:
		return c.convertFloat(float64(x))
	case float64:
		return c.convertFloat(x)
	case time.Time:
		return FromDate(x.Format(DateLayout)), nil
	}
	return c.convertReflect(reflect.ValueOf(v))
}

func (c *converter) convertUint(x uint64) (*Value, error) {
	if x > math.MaxInt64 {
		return nil, &ConversionError{GoType: "uint64", Reason: "overflows int64"}
	}
	return FromInt(int64(x)), nil
}

func (c *converter) convertFloat(f float64) (*Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &ConversionError{GoType: "float64", Reason: "NaN/Inf has no canonical form"}
	}
	return FromFloat(f), nil
}

func (c *converter) convertReflect(rv reflect.Value) (*Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return c.convert(rv.Elem().Interface())

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, &ConversionError{
				GoType: rv.Type().String(),
				Reason: "map keys must be strings",
			}
		}
		ptr := rv.Pointer()
		if c.seen[ptr] {
			return nil, &ConversionError{GoType: rv.Type().String(), Reason: "cyclic reference"}
		}
		c.seen[ptr] = true
		defer delete(c.seen, ptr)

		keys := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
		sort.Strings(keys)
		res := &Value{Kind: RecordKind}
		for _, k := range keys {
			mv := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
			cv, err := c.convert(mv.Interface())
			if err != nil {
				return nil, err
			}
			res.SetField(k, cv)
		}
		return res, nil

	case reflect.Slice:
		if rv.IsNil() {
			return Null(), nil
		}
		ptr := rv.Pointer()
		if c.seen[ptr] {
			return nil, &ConversionError{GoType: rv.Type().String(), Reason: "cyclic reference"}
		}
		c.seen[ptr] = true
		defer delete(c.seen, ptr)
		return c.convertElems(rv)

	case reflect.Array:
		return c.convertElems(rv)

	case reflect.Struct:
		return c.convertStruct(rv)

	default:
		return nil, &ConversionError{
			GoType: rv.Type().String(),
			Reason: "unsupported type",
		}
	}
}

// convertStruct turns exported struct fields into record members. Field
// names follow `json` tags the way an ORM's serializer would; tagged
// "-" fields are skipped and embedded fields are promoted.
func (c *converter) convertStruct(rv reflect.Value) (*Value, error) {
	res := &Value{Kind: RecordKind}
	for _, sf := range reflect.VisibleFields(rv.Type()) {
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		cv, err := c.convert(rv.FieldByIndex(sf.Index).Interface())
		if err != nil {
			return nil, err
		}
		res.SetField(name, cv)
	}
	return res, nil
}

func (c *converter) convertElems(rv reflect.Value) (*Value, error) {
	res := &Value{Kind: SequenceKind, Values: make([]*Value, rv.Len())}
	for i := 0; i < rv.Len(); i++ {
		cv, err := c.convert(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		res.Values[i] = cv
	}
	return res, nil
}

// ToGo maps a canonical tree back to plain Go data: records become
// map[string]any, sequences []any, dates time.Time at midnight UTC.
func ToGo(v *Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case NullKind:
		return nil
	case BoolKind:
		return v.Bool
	case IntKind:
		return v.Int64
	case FloatKind:
		return v.Float64
	case StringKind:
		return v.Str
	case DateKind:
		t, err := time.Parse(DateLayout, v.Date)
		if err != nil {
			return v.Date
		}
		return t
	case SequenceKind:
		res := make([]any, len(v.Values))
		for i, vv := range v.Values {
			res[i] = ToGo(vv)
		}
		return res
	case RecordKind:
		res := make(map[string]any, len(v.Fields))
		for i, name := range v.Fields {
			res[name] = ToGo(v.Values[i])
		}
		return res
	default:
		panic("kind")
	}
}
