package changelog

import (
	"context"
	"time"

	"github.com/toninf/sqalchemy-deepdiff/canon"
	"github.com/toninf/sqalchemy-deepdiff/delta"
)

// Rollback reconstructs the snapshot an entity had at time `to`:
// every entry recorded after `to` is inverted against `current` in
// descending timestamp order. The caller decides what, if anything,
// to do with the result; nothing is written back.
func Rollback(ctx context.Context, st Store, entityID string, to time.Time, current *canon.Value) (*canon.Value, error) {
	entries, err := st.LoadSince(ctx, entityID, to)
	if err != nil {
		return nil, err
	}
	res := current
	for i := len(entries) - 1; i >= 0; i-- {
		res, err = delta.From(entries[i].ChangeSet).ApplyInverse(res)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ReplaySince applies every entry recorded after `after` to `base` in
// ascending timestamp order, reconstructing the later snapshot.
func ReplaySince(ctx context.Context, st Store, entityID string, after time.Time, base *canon.Value) (*canon.Value, error) {
	entries, err := st.LoadSince(ctx, entityID, after)
	if err != nil {
		return nil, err
	}
	res := base
	for i := range entries {
		res, err = delta.From(entries[i].ChangeSet).Apply(res)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
