package canon

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
)

// String renders a compact single-line canonical form. Record fields
// are emitted in sorted order so two Equal trees always render
// identically; the differ keys multisets on this property.
func (v *Value) String() string {
	buf := bytes.NewBuffer(nil)
	v.encodeTo(buf)
	return buf.String()
}

func (v *Value) encodeTo(buf *bytes.Buffer) {
	if v == nil {
		buf.WriteString("null")
		return
	}
	switch v.Kind {
	case NullKind:
		buf.WriteString("null")
	case BoolKind:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case IntKind:
		buf.WriteString(strconv.FormatInt(v.Int64, 10))
	case FloatKind:
		buf.WriteString(formatFloat(v.Float64))
	case StringKind:
		buf.WriteString(strconv.Quote(v.Str))
	case DateKind:
		buf.WriteByte('@')
		buf.WriteString(v.Date)
	case SequenceKind:
		buf.WriteByte('[')
		for i, vv := range v.Values {
			if i > 0 {
				buf.WriteString(", ")
			}
			vv.encodeTo(buf)
		}
		buf.WriteByte(']')
	case RecordKind:
		idx := make([]int, len(v.Fields))
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(i, j int) bool {
			return v.Fields[idx[i]] < v.Fields[idx[j]]
		})
		buf.WriteByte('{')
		for n, i := range idx {
			if n > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(encodeField(v.Fields[i]))
			buf.WriteString(": ")
			v.Values[i].encodeTo(buf)
		}
		buf.WriteByte('}')
	default:
		panic("kind")
	}
}

func encodeField(f string) string {
	if f != "" && !strings.ContainsAny(f, " \t\n\"'{}[],:@") {
		return f
	}
	return strconv.Quote(f)
}

// formatFloat keeps float renderings distinguishable from integers:
// 5.0 renders as "5.0", not "5".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
