package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// The wire form of a value is plain JSON with one exception: date
// scalars are tagged as {"kind":"date","value":"YYYY-MM-DD"} so a
// round trip through persistence cannot degrade them to strings.

func (v *Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case NullKind:
		return []byte("null"), nil
	case BoolKind:
		return []byte(strconv.FormatBool(v.Bool)), nil
	case IntKind:
		return []byte(strconv.FormatInt(v.Int64, 10)), nil
	case FloatKind:
		// keep a decimal point so the float survives re-decoding
		return []byte(formatFloat(v.Float64)), nil
	case StringKind:
		return json.Marshal(v.Str)
	case DateKind:
		return json.Marshal(map[string]string{"kind": "date", "value": v.Date})
	case SequenceKind:
		buf := bytes.NewBuffer([]byte{'['})
		for i, vv := range v.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			d, err := vv.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(d)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case RecordKind:
		buf := bytes.NewBuffer([]byte{'{'})
		for i, name := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			d, err := v.Values[i].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(d)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unencodable kind %s", v.Kind)
	}
}

func (v *Value) UnmarshalJSON(d []byte) error {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	vv, err := fromWire(raw)
	if err != nil {
		return err
	}
	*v = *vv
	return nil
}

func fromWire(raw any) (*Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case json.Number:
		if i, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return FromInt(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", x.String(), err)
		}
		return FromFloat(f), nil
	case []any:
		res := &Value{Kind: SequenceKind, Values: make([]*Value, len(x))}
		for i, e := range x {
			ev, err := fromWire(e)
			if err != nil {
				return nil, err
			}
			res.Values[i] = ev
		}
		return res, nil
	case map[string]any:
		if d, ok := wireDate(x); ok {
			return d, nil
		}
		res := &Value{Kind: RecordKind}
		// object key order in encoding/json maps is lost; re-sort so
		// decoding stays deterministic (record equality ignores order)
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			kv, err := fromWire(x[k])
			if err != nil {
				return nil, err
			}
			res.SetField(k, kv)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("unsupported wire value of type %T", raw)
	}
}

func wireDate(m map[string]any) (*Value, bool) {
	if len(m) != 2 {
		return nil, false
	}
	if k, ok := m["kind"].(string); !ok || k != "date" {
		return nil, false
	}
	s, ok := m["value"].(string)
	if !ok {
		return nil, false
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return nil, false
	}
	return FromDate(s), true
}
