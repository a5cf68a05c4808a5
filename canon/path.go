package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Step addresses one hop inside a value tree: a record field or a
// sequence index. Exactly one of Field and Index is set.
type Step struct {
	Field *string
	Index *int
}

func KeyStep(name string) Step {
	return Step{Field: &name}
}

func IndexStep(i int) Step {
	return Step{Index: &i}
}

// Path addresses a location inside a value tree; the empty path is the
// root. Paths print in the $.field[index] form.
type Path []Step

// Key returns a new path extended by a record-field step. The receiver
// is not modified.
func (p Path) Key(name string) Path {
	res := make(Path, len(p)+1)
	copy(res, p)
	res[len(p)] = KeyStep(name)
	return res
}

// At returns a new path extended by a sequence-index step.
func (p Path) At(i int) Path {
	res := make(Path, len(p)+1)
	copy(res, p)
	res[len(p)] = IndexStep(i)
	return res
}

// Equal reports whether two paths address the same location.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		ps, qs := p[i], q[i]
		switch {
		case ps.Field != nil:
			if qs.Field == nil || *ps.Field != *qs.Field {
				return false
			}
		case ps.Index != nil:
			if qs.Index == nil || *ps.Index != *qs.Index {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (p Path) String() string {
	buf := bytes.NewBuffer([]byte{'$'})
	for _, s := range p {
		if s.Field != nil {
			buf.WriteByte('.')
			buf.WriteString(pathField(*s.Field))
			continue
		}
		if s.Index != nil {
			fmt.Fprintf(buf, "[%d]", *s.Index)
		}
	}
	return buf.String()
}

func pathField(f string) string {
	if f != "" && strings.IndexAny(f, "'.$[] \t") == -1 {
		return f
	}
	return "'" + strings.Replace(f, "'", "\\'", -1) + "'"
}

// ParsePath parses the $.field[index] form produced by String.
func ParsePath(p string) (Path, error) {
	if len(p) == 0 || p[0] != '$' {
		return nil, fmt.Errorf("path %q should start with '$'", p)
	}
	var res Path
	frag := p[1:]
	for len(frag) > 0 {
		switch frag[0] {
		case '.':
			field, rest, err := parseField(frag[1:])
			if err != nil {
				return nil, err
			}
			res = append(res, KeyStep(field))
			frag = rest
		case '[':
			i := strings.IndexByte(frag[1:], ']')
			if i == -1 {
				return nil, fmt.Errorf("expected '[' <index> ']'")
			}
			u64, err := strconv.ParseUint(frag[1:i+1], 10, 64)
			if err != nil {
				return nil, err
			}
			res = append(res, IndexStep(int(u64)))
			frag = frag[i+2:]
		default:
			return nil, fmt.Errorf("expected '.' or '['")
		}
	}
	return res, nil
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch c {
		case '\\':
			escaped = true
		case '\'':
			if !escaped {
				return string(res), frag[i+1:], nil
			}
			fallthrough
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

// Lookup walks the path inside v, reporting false when any hop is
// missing or addresses the wrong container kind.
func (p Path) Lookup(v *Value) (*Value, bool) {
	res := v
	for _, s := range p {
		if res == nil {
			return nil, false
		}
		if s.Field != nil {
			if res.Kind != RecordKind {
				return nil, false
			}
			res = res.Get(*s.Field)
			if res == nil {
				return nil, false
			}
			continue
		}
		if s.Index != nil {
			if res.Kind != SequenceKind {
				return nil, false
			}
			i := *s.Index
			if i < 0 || i >= len(res.Values) {
				return nil, false
			}
			res = res.Values[i]
			continue
		}
		return nil, false
	}
	return res, true
}

// Paths serialize as a mixed array of strings (record fields) and
// integers (sequence indices).
func (p Path) MarshalJSON() ([]byte, error) {
	steps := make([]any, len(p))
	for i, s := range p {
		switch {
		case s.Field != nil:
			steps[i] = *s.Field
		case s.Index != nil:
			steps[i] = *s.Index
		default:
			return nil, fmt.Errorf("empty path step at %d", i)
		}
	}
	return json.Marshal(steps)
}

func (p *Path) UnmarshalJSON(d []byte) error {
	var steps []any
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	if err := dec.Decode(&steps); err != nil {
		return err
	}
	res := make(Path, 0, len(steps))
	for i, s := range steps {
		switch x := s.(type) {
		case string:
			res = append(res, KeyStep(x))
		case json.Number:
			n, err := strconv.Atoi(x.String())
			if err != nil {
				return fmt.Errorf("path step %d: %w", i, err)
			}
			res = append(res, IndexStep(n))
		default:
			return fmt.Errorf("path step %d: want string or int, got %T", i, s)
		}
	}
	*p = res
	return nil
}
