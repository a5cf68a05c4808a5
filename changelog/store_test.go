package changelog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/toninf/sqalchemy-deepdiff/canon"
	"github.com/toninf/sqalchemy-deepdiff/diff"
)

func testStore(t *testing.T, st Store) {
	ctx := context.Background()
	t0 := time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC)

	a := decode(t, `{plate: ABC123, records: []}`)
	b := decode(t, `{plate: ABC123, records: [{id: 1, date: "2025-05-05"}]}`)
	c := decode(t, `{plate: XYZ999, records: [{id: 1, date: "2025-05-05"}]}`)

	id1, err := st.Save(ctx, "vehicle/1", t0, diff.Diff(a, b))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id1)
	id2, err := st.Save(ctx, "vehicle/1", t0.Add(time.Hour), diff.Diff(b, c))
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)
	_, err = st.Save(ctx, "vehicle/2", t0.Add(time.Minute), diff.Diff(a, c))
	require.NoError(t, err)

	// full history, ascending, scoped to the entity
	got, err := st.LoadSince(ctx, "vehicle/1", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, id1, got[0].ID)
	require.Equal(t, id2, got[1].ID)
	require.Equal(t, "vehicle/1", got[0].EntityID)
	require.True(t, got[0].Timestamp.Equal(t0))

	// strictly after: the boundary entry itself is excluded
	got, err = st.LoadSince(ctx, "vehicle/1", t0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, id2, got[0].ID)

	got, err = st.LoadSince(ctx, "vehicle/1", t0.Add(2*time.Hour))
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = st.LoadSince(ctx, "vehicle/unknown", time.Time{})
	require.NoError(t, err)
	require.Empty(t, got)

	// change sets survive the store round trip
	got, err = st.LoadSince(ctx, "vehicle/1", time.Time{})
	require.NoError(t, err)
	replayed, err := ReplaySince(ctx, st, "vehicle/1", time.Time{}, a)
	require.NoError(t, err)
	require.True(t, canon.Equal(replayed, c), "replayed = %s", replayed)
	require.Len(t, got, 2)
}

func TestMemStore(t *testing.T) {
	testStore(t, NewMemStore())
}

func TestMemStoreOutOfOrderSave(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late, err := st.Save(ctx, "e", t0.Add(time.Hour), nil)
	require.NoError(t, err)
	early, err := st.Save(ctx, "e", t0, nil)
	require.NoError(t, err)

	got, err := st.LoadSince(ctx, "e", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, early, got[0].ID)
	require.Equal(t, late, got[1].ID)
}

func TestRollback(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()
	t0 := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

	v0 := decode(t, `{plate: ABC123, records: []}`)
	v1 := decode(t, `{plate: ABC123, records: [{id: 1, date: "2025-05-05", description: Oil change}]}`)
	v2 := decode(t, `{plate: ABC123, records: [{id: 1, date: "2027-07-07", description: Oil change}]}`)

	_, err := st.Save(ctx, "vehicle/1", t0, diff.Diff(v0, v1))
	require.NoError(t, err)
	_, err = st.Save(ctx, "vehicle/1", t0.Add(time.Hour), diff.Diff(v1, v2))
	require.NoError(t, err)

	// one step back
	got, err := Rollback(ctx, st, "vehicle/1", t0.Add(time.Minute), v2)
	require.NoError(t, err)
	require.True(t, canon.Equal(got, v1), "got %s", got)

	// all the way back
	got, err = Rollback(ctx, st, "vehicle/1", t0.Add(-time.Minute), v2)
	require.NoError(t, err)
	require.True(t, canon.Equal(got, v0), "got %s", got)

	// nothing after `to`: current comes back unchanged
	got, err = Rollback(ctx, st, "vehicle/1", t0.Add(2*time.Hour), v2)
	require.NoError(t, err)
	require.True(t, canon.Equal(got, v2))

	// rolling back from a snapshot that diverged from the log fails
	diverged := decode(t, `{plate: OTHER, records: []}`)
	_, err = Rollback(ctx, st, "vehicle/1", t0.Add(-time.Minute), diverged)
	require.Error(t, err)
}

func TestPebbleStore(t *testing.T) {
	st, err := OpenPebble(t.TempDir())
	require.NoError(t, err)
	defer st.Close()
	testStore(t, st)
}

func TestPebbleStoreReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	t0 := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	a := decode(t, `{x: 1}`)
	b := decode(t, `{x: 2}`)

	st, err := OpenPebble(dir)
	require.NoError(t, err)
	id, err := st.Save(ctx, "e", t0, diff.Diff(a, b))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = OpenPebble(dir)
	require.NoError(t, err)
	defer st.Close()
	got, err := st.LoadSince(ctx, "e", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, id, got[0].ID)
	require.True(t, got[0].Timestamp.Equal(t0))
}

func TestPebbleStoreRejectsNULEntityID(t *testing.T) {
	st, err := OpenPebble(t.TempDir())
	require.NoError(t, err)
	defer st.Close()
	_, err = st.Save(context.Background(), "bad\x00id", time.Now(), nil)
	require.Error(t, err)
}

func TestStoreHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st := NewMemStore()
	_, err := st.Save(ctx, "e", time.Now(), nil)
	require.ErrorIs(t, err, context.Canceled)
	_, err = st.LoadSince(ctx, "e", time.Time{})
	require.ErrorIs(t, err, context.Canceled)
}

func decode(t *testing.T, src string) *canon.Value {
	t.Helper()
	v, err := canon.Decode([]byte(src))
	require.NoError(t, err)
	return v
}
