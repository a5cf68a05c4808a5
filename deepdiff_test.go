package deepdiff

import (
	"testing"
	"time"

	"github.com/toninf/sqalchemy-deepdiff/canon"
	"github.com/toninf/sqalchemy-deepdiff/diff"
)

type serviceRecord struct {
	ID          int       `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Manager     manager   `json:"manager"`
}

type manager struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type vehicle struct {
	ID      int             `json:"id"`
	Plate   string          `json:"plate"`
	Records []serviceRecord `json:"records"`
}

func day(s string) time.Time {
	t, err := time.Parse(canon.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestVehicleHistory(t *testing.T) {
	a := vehicle{
		ID:    1,
		Plate: "ABC123",
		Records: []serviceRecord{{
			ID:          1,
			Date:        day("2025-05-05"),
			Description: "Oil change",
			Manager:     manager{ID: 1, Name: "John Doe"},
		}},
	}
	b := a
	b.Records = []serviceRecord{a.Records[0]}
	b.Records[0].Date = day("2027-07-07")

	cs, err := DiffSnapshots(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 1 {
		t.Fatalf("change set: %v", cs)
	}
	if got, want := cs[0].String(), "~ $.records[0].date: @2025-05-05 -> @2027-07-07"; got != want {
		t.Errorf("op = %q, want %q", got, want)
	}

	ca, err := canon.FromGo(a)
	if err != nil {
		t.Fatal(err)
	}
	cb, err := canon.FromGo(b)
	if err != nil {
		t.Fatal(err)
	}
	next, err := Apply(cs, ca)
	if err != nil {
		t.Fatal(err)
	}
	if !canon.Equal(next, cb) {
		t.Errorf("Apply = %s, want %s", next, cb)
	}
	prev, err := Revert(cs, cb)
	if err != nil {
		t.Fatal(err)
	}
	if !canon.Equal(prev, ca) {
		t.Errorf("Revert = %s, want %s", prev, ca)
	}
}

func TestDiffSnapshotsIgnoreOrder(t *testing.T) {
	type garage struct {
		Plates []string `json:"plates"`
	}
	a := garage{Plates: []string{"ABC123", "XYZ999"}}
	b := garage{Plates: []string{"XYZ999", "ABC123"}}

	cs, err := DiffSnapshots(a, b, diff.IgnoreOrder(true))
	if err != nil {
		t.Fatal(err)
	}
	if !cs.Empty() {
		t.Errorf("reordered slice should diff empty, got %v", cs)
	}
	cs, err = DiffSnapshots(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 2 {
		t.Errorf("positional diff: %v", cs)
	}
}

func TestDiffSnapshotsUnsupported(t *testing.T) {
	if _, err := DiffSnapshots(make(chan int), 1); err == nil {
		t.Error("want conversion error")
	}
}
