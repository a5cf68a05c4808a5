package render

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/toninf/sqalchemy-deepdiff/canon"
)

// Pretty renders a canonical value one member per line, indented, with
// record fields sorted so equal trees render identically. TextDiff
// feeds on this line form.
func Pretty(v *canon.Value) string {
	buf := bytes.NewBuffer(nil)
	if inline(v) {
		fmt.Fprintf(buf, "%s\n", v)
		return buf.String()
	}
	block(buf, v, 0)
	return buf.String()
}

// inline values render on the member's own line; only non-empty
// containers open a block.
func inline(v *canon.Value) bool {
	return v == nil || v.Kind.IsLeaf() || len(v.Values) == 0
}

func block(buf *bytes.Buffer, v *canon.Value, depth int) {
	buf.WriteByte('\n')
	switch v.Kind {
	case canon.SequenceKind:
		for _, vv := range v.Values {
			indent(buf, depth)
			buf.WriteByte('-')
			member(buf, vv, depth+1)
		}
	case canon.RecordKind:
		idx := make([]int, len(v.Fields))
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(i, j int) bool {
			return v.Fields[idx[i]] < v.Fields[idx[j]]
		})
		for _, i := range idx {
			indent(buf, depth)
			fmt.Fprintf(buf, "%s:", v.Fields[i])
			member(buf, v.Values[i], depth+1)
		}
	}
}

func member(buf *bytes.Buffer, v *canon.Value, depth int) {
	if inline(v) {
		fmt.Fprintf(buf, " %s\n", v)
		return
	}
	block(buf, v, depth)
}

func indent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}
