// Package changelog persists change sets as timestamped, entity-keyed
// entries and reconstructs earlier snapshots from them. Stores assume a
// strictly linear history per entity: a single logical writer advances
// an entity's snapshot sequence at a time.
package changelog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/toninf/sqalchemy-deepdiff/diff"
)

// Entry associates one change set with an entity at a point in time.
// Entries are immutable once saved.
type Entry struct {
	ID        uuid.UUID
	EntityID  string
	Timestamp time.Time
	ChangeSet diff.ChangeSet
}

// Store is the persistence contract. LoadSince returns entries with
// Timestamp strictly after the given time, ascending, which is the
// order multi-step rollback depends on.
type Store interface {
	Save(ctx context.Context, entityID string, ts time.Time, cs diff.ChangeSet) (uuid.UUID, error)
	LoadSince(ctx context.Context, entityID string, after time.Time) ([]Entry, error)
}
