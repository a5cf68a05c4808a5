package diff

import (
	"encoding/json"
	"testing"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/toninf/sqalchemy-deepdiff/canon"
)

func TestApplyJSONPatch(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{name: "replace", a: `{x: 1, y: a}`, b: `{x: 2, y: a}`},
		{name: "add-field", a: `{x: 1}`, b: `{x: 1, y: 2}`},
		{name: "remove-field", a: `{x: 1, y: 2}`, b: `{x: 1}`},
		{name: "nested", a: `{r: [{id: 1}, {id: 2}]}`, b: `{r: [{id: 1}, {id: 3}]}`},
		{name: "tail-remove", a: `{r: [1, 2, 3]}`, b: `{r: [1]}`},
		{name: "escaping", a: `{"a/b": 1, "c~d": 2}`, b: `{"a/b": 9, "c~d": 2}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := mustDecode(t, tc.a)
			b := mustDecode(t, tc.b)
			doc := mustJSON(t, a)
			got, err := ApplyJSONPatch(doc, Diff(a, b))
			if err != nil {
				t.Fatal(err)
			}
			want := mustJSON(t, b)
			if !jsonpatch.Equal(got, want) {
				t.Errorf("patched doc = %s, want %s", got, want)
			}
		})
	}
}

func TestToJSONPatchMultisetAdd(t *testing.T) {
	cs := Diff(mustDecode(t, `[1]`), mustDecode(t, `[1, 2, 2]`), IgnoreOrder(true))
	d, err := ToJSONPatch(cs)
	if err != nil {
		t.Fatal(err)
	}
	var ops []map[string]any
	if err := json.Unmarshal(d, &ops); err != nil {
		t.Fatal(err)
	}
	if len(ops) != 2 {
		t.Fatalf("want one append per repetition, got %s", d)
	}
	for _, op := range ops {
		if op["op"] != "add" || op["path"] != "/-" {
			t.Errorf("unexpected op %v", op)
		}
	}
}

func TestToJSONPatchRejectsMultisetRemoval(t *testing.T) {
	cs := Diff(mustDecode(t, `[1, 2]`), mustDecode(t, `[2]`), IgnoreOrder(true))
	if _, err := ToJSONPatch(cs); err == nil {
		t.Error("want error for order-insensitive removal")
	}
}

func mustJSON(t *testing.T, v *canon.Value) []byte {
	t.Helper()
	d, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
