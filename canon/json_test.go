package canon

import (
	"encoding/json"
	"testing"
)

func TestValueWireRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  *Value
		wire string
	}{
		{"null", Null(), `null`},
		{"bool", FromBool(true), `true`},
		{"int", FromInt(42), `42`},
		{"float-keeps-point", FromFloat(5), `5.0`},
		{"string", FromString("5"), `"5"`},
		{"date", FromDate("2025-05-05"), `{"kind":"date","value":"2025-05-05"}`},
		{
			"nested",
			FromFields([]Field{
				{"id", FromInt(1)},
				{"when", FromDate("2025-05-05")},
				{"xs", FromSlice([]*Value{FromInt(1), FromString("1")})},
			}),
			`{"id":1,"when":{"kind":"date","value":"2025-05-05"},"xs":[1,"1"]}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := json.Marshal(tc.val)
			if err != nil {
				t.Fatal(err)
			}
			if string(d) != tc.wire {
				t.Fatalf("wire = %s, want %s", d, tc.wire)
			}
			back := &Value{}
			if err := json.Unmarshal(d, back); err != nil {
				t.Fatal(err)
			}
			if !Equal(tc.val, back) {
				t.Errorf("round trip: %s vs %s", tc.val, back)
			}
		})
	}
}

func TestWireDateNotMistaken(t *testing.T) {
	// a record that merely resembles the date tag but fails validation
	// stays a record
	back := &Value{}
	if err := json.Unmarshal([]byte(`{"kind":"date","value":"not-a-date"}`), back); err != nil {
		t.Fatal(err)
	}
	if back.Kind != RecordKind {
		t.Errorf("kind = %s, want record", back.Kind)
	}
}

func TestDecodeYAML(t *testing.T) {
	v, err := Decode([]byte(`
id: 1
plate: ABC123
records:
- date: "2025-05-05"
  desc: Oil change
`))
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Get("id"); got == nil || got.Kind != IntKind {
		t.Fatalf("id = %s", got)
	}
	date, ok := Path{}.Key("records").At(0).Key("date").Lookup(v)
	if !ok {
		t.Fatal("no records[0].date")
	}
	// plain calendar strings stay strings on ingestion
	if date.Kind != StringKind || date.Str != "2025-05-05" {
		t.Errorf("date = %s", date)
	}
}
