package diff

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/toninf/sqalchemy-deepdiff/canon"
)

// ToJSONPatch renders the forward direction of a change set as an
// RFC6902 document, for tools that only speak JSON Patch. The result
// drops the old-value preconditions (RFC6902 replace/remove carry
// none) and so is strictly weaker than applying the Delta itself.
//
// Order-insensitive removals have no positional RFC6902 form and are
// rejected.
func ToJSONPatch(cs ChangeSet) ([]byte, error) {
	type jOp struct {
		Op    string       `json:"op"`
		Path  string       `json:"path"`
		Value *canon.Value `json:"value,omitempty"`
	}
	var ops []jOp
	for i, op := range patchOrder(cs) {
		switch op.Kind {
		case Changed:
			ops = append(ops, jOp{Op: "replace", Path: jsonPointer(op.Path), Value: op.New})
		case Added:
			if op.Count > 0 {
				for n := 0; n < op.Count; n++ {
					ops = append(ops, jOp{Op: "add", Path: jsonPointer(op.Path) + "/-", Value: op.Value})
				}
				continue
			}
			ops = append(ops, jOp{Op: "add", Path: jsonPointer(op.Path), Value: op.Value})
		case Removed:
			if op.Count > 0 {
				return nil, fmt.Errorf("op %d: order-insensitive removal at %s has no RFC6902 form",
					i, op.Path)
			}
			ops = append(ops, jOp{Op: "remove", Path: jsonPointer(op.Path)})
		}
	}
	return json.Marshal(ops)
}

// ApplyJSONPatch applies the forward direction of a change set to a
// JSON document through an RFC6902 engine.
func ApplyJSONPatch(doc []byte, cs ChangeSet) ([]byte, error) {
	d, err := ToJSONPatch(cs)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.DecodePatch(d)
	if err != nil {
		return nil, err
	}
	return patch.Apply(doc)
}

// patchOrder rewrites each run of positional index removals under one
// parent to descending index order. The differ records them at
// ascending indices against the unmodified snapshot; a sequential
// RFC6902 engine would shift later indices after the first removal.
func patchOrder(cs ChangeSet) []*Op {
	ops := make([]*Op, len(cs))
	for i := range cs {
		ops[i] = &cs[i]
	}
	isIdxRemoval := func(op *Op) bool {
		return op.Kind == Removed && op.Count == 0 &&
			len(op.Path) > 0 && op.Path[len(op.Path)-1].Index != nil
	}
	for i := 0; i < len(ops); {
		if !isIdxRemoval(ops[i]) {
			i++
			continue
		}
		j := i + 1
		for j < len(ops) && isIdxRemoval(ops[j]) &&
			ops[i].Path[:len(ops[i].Path)-1].Equal(ops[j].Path[:len(ops[j].Path)-1]) {
			j++
		}
		for a, b := i, j-1; a < b; a, b = a+1, b-1 {
			ops[a], ops[b] = ops[b], ops[a]
		}
		i = j
	}
	return ops
}

func jsonPointer(p canon.Path) string {
	buf := strings.Builder{}
	for _, s := range p {
		buf.WriteByte('/')
		if s.Field != nil {
			f := strings.Replace(*s.Field, "~", "~0", -1)
			f = strings.Replace(f, "/", "~1", -1)
			buf.WriteString(f)
			continue
		}
		if s.Index != nil {
			buf.WriteString(strconv.Itoa(*s.Index))
		}
	}
	return buf.String()
}
