package diff

import (
	"encoding/json"

	"github.com/toninf/sqalchemy-deepdiff/canon"
)

// wireOp is the persisted shape of an operation:
//
//	{"op": ..., "path": [...], "oldValue"?, "newValue"?, "value"?, "count"?}
type wireOp struct {
	Op    OpKind       `json:"op"`
	Path  canon.Path   `json:"path"`
	Old   *canon.Value `json:"oldValue,omitempty"`
	New   *canon.Value `json:"newValue,omitempty"`
	Value *canon.Value `json:"value,omitempty"`
	Count int          `json:"count,omitempty"`
}

func (cs ChangeSet) MarshalJSON() ([]byte, error) {
	ops := make([]wireOp, len(cs))
	for i := range cs {
		op := &cs[i]
		ops[i] = wireOp{
			Op:    op.Kind,
			Path:  op.Path,
			Old:   op.Old,
			New:   op.New,
			Value: op.Value,
			Count: op.Count,
		}
		if ops[i].Path == nil {
			ops[i].Path = canon.Path{}
		}
	}
	return json.Marshal(ops)
}

func (cs *ChangeSet) UnmarshalJSON(d []byte) error {
	var ops []wireOp
	if err := json.Unmarshal(d, &ops); err != nil {
		return err
	}
	res := make(ChangeSet, len(ops))
	for i := range ops {
		res[i] = Op{
			Kind:  ops[i].Op,
			Path:  ops[i].Path,
			Old:   ops[i].Old,
			New:   ops[i].New,
			Value: ops[i].Value,
			Count: ops[i].Count,
		}
	}
	*cs = res
	return nil
}
