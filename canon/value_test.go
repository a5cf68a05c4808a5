package canon

import (
	"errors"
	"testing"
	"time"
)

func TestEqualKindSensitive(t *testing.T) {
	tests := []struct {
		name string
		a, b *Value
		eq   bool
	}{
		{"int-int", FromInt(5), FromInt(5), true},
		{"int-string", FromInt(5), FromString("5"), false},
		{"int-float", FromInt(5), FromFloat(5), false},
		{"date-string", FromDate("2025-05-05"), FromString("2025-05-05"), false},
		{"null-null", Null(), Null(), true},
		{"bool", FromBool(true), FromBool(false), false},
		{
			"record-order-insensitive",
			FromFields([]Field{{"a", FromInt(1)}, {"b", FromInt(2)}}),
			FromFields([]Field{{"b", FromInt(2)}, {"a", FromInt(1)}}),
			true,
		},
		{
			"record-missing-key",
			FromFields([]Field{{"a", FromInt(1)}}),
			FromFields([]Field{{"b", FromInt(1)}}),
			false,
		},
		{
			"sequence-order-sensitive",
			FromSlice([]*Value{FromInt(1), FromInt(2)}),
			FromSlice([]*Value{FromInt(2), FromInt(1)}),
			false,
		},
		{
			"sequence-length",
			FromSlice([]*Value{FromInt(1)}),
			FromSlice([]*Value{FromInt(1), FromInt(1)}),
			false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.eq {
				t.Errorf("Equal(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.eq)
			}
		})
	}
}

func TestCloneIndependence(t *testing.T) {
	orig := FromFields([]Field{
		{"xs", FromSlice([]*Value{FromInt(1), FromInt(2)})},
	})
	cp := orig.Clone()
	if !Equal(orig, cp) {
		t.Fatalf("clone differs: %s vs %s", orig, cp)
	}
	cp.Get("xs").Values[0] = FromInt(9)
	if Equal(orig, cp) {
		t.Fatalf("mutation of clone leaked into original: %s", orig)
	}
	if orig.Get("xs").Values[0].Int64 != 1 {
		t.Fatalf("original changed: %s", orig)
	}
}

func TestFromGo(t *testing.T) {
	v, err := FromGo(map[string]any{
		"name":  "oil change",
		"count": 3,
		"price": 19.5,
		"done":  true,
		"note":  nil,
		"when":  time.Date(2025, 5, 5, 14, 30, 0, 0, time.UTC),
		"tags":  []any{"a", "b"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Get("when"); got.Kind != DateKind || got.Date != "2025-05-05" {
		t.Errorf("when = %s, want @2025-05-05", got)
	}
	if got := v.Get("count"); got.Kind != IntKind || got.Int64 != 3 {
		t.Errorf("count = %s", got)
	}
	if got := v.Get("price"); got.Kind != FloatKind || got.Float64 != 19.5 {
		t.Errorf("price = %s", got)
	}
	if got := v.Get("note"); got.Kind != NullKind {
		t.Errorf("note = %s", got)
	}
	if got := v.Get("tags"); got.Kind != SequenceKind || len(got.Values) != 2 {
		t.Errorf("tags = %s", got)
	}
}

func TestFromGoStruct(t *testing.T) {
	type base struct {
		ID int `json:"id"`
	}
	type record struct {
		base
		Date     time.Time `json:"date"`
		Desc     string    `json:"description"`
		Internal string    `json:"-"`
		Untag    bool
		hidden   int
	}
	v, err := FromGo(record{
		base: base{ID: 7},
		Date: time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC),
		Desc: "Oil change",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), `{Untag: false, date: @2025-05-05, description: "Oil change", id: 7}`; got != want {
		t.Errorf("struct conversion = %s, want %s", got, want)
	}
}

func TestFromGoDeterministic(t *testing.T) {
	mk := func() any {
		return map[string]any{"b": 1, "a": 2, "c": map[string]any{"z": 1, "y": 2}}
	}
	v1, err := FromGo(mk())
	if err != nil {
		t.Fatal(err)
	}
	v2, err := FromGo(mk())
	if err != nil {
		t.Fatal(err)
	}
	if v1.String() != v2.String() {
		t.Errorf("conversion not deterministic: %s vs %s", v1, v2)
	}
}

func TestFromGoUnsupported(t *testing.T) {
	_, err := FromGo(make(chan int))
	var cerr *ConversionError
	if !errors.As(err, &cerr) {
		t.Fatalf("want ConversionError, got %v", err)
	}
}

func TestFromGoCycle(t *testing.T) {
	m := map[string]any{}
	m["self"] = m
	_, err := FromGo(m)
	var cerr *ConversionError
	if !errors.As(err, &cerr) {
		t.Fatalf("want ConversionError for cycle, got %v", err)
	}
	if cerr.Reason != "cyclic reference" {
		t.Errorf("reason = %q", cerr.Reason)
	}
}


func TestToGoRoundTrip(t *testing.T) {
	in := map[string]any{
		"id":    int64(1),
		"plate": "ABC123",
		"records": []any{
			map[string]any{"desc": "Oil change", "cost": 10.5},
		},
	}
	v, err := FromGo(in)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromGo(ToGo(v))
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(v, back) {
		t.Errorf("round trip changed value: %s vs %s", v, back)
	}
}
