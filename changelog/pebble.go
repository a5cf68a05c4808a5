package changelog

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"github.com/toninf/sqalchemy-deepdiff/debug"
	"github.com/toninf/sqalchemy-deepdiff/diff"
)

// PebbleStore keeps the change log in a pebble database. Keys are
//
//	'e' <entityID> 0x00 <unix-nanos big-endian> <entry uuid>
//
// so LoadSince is one bounded ascending scan per entity.
type PebbleStore struct {
	db *pebble.DB
}

var _ Store = (*PebbleStore)(nil)

var writeOptions = &pebble.WriteOptions{Sync: true}

func OpenPebble(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening change log at %q: %w", path, err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func (s *PebbleStore) Save(ctx context.Context, entityID string, ts time.Time, cs diff.ChangeSet) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if strings.ContainsRune(entityID, 0) {
		return uuid.Nil, fmt.Errorf("entity id %q contains a NUL byte", entityID)
	}
	if ts.UnixNano() < 0 {
		return uuid.Nil, fmt.Errorf("timestamp %s predates the key encoding's epoch", ts)
	}
	id := uuid.New()
	key := entryKey(entityID, ts, id)
	val, err := json.Marshal(cs)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.db.Set(key, val, writeOptions); err != nil {
		return uuid.Nil, err
	}
	if debug.Log() {
		debug.Logf("changelog save %s@%s ops=%d\n", entityID, ts.Format(time.RFC3339Nano), len(cs))
	}
	return id, nil
}

func (s *PebbleStore) LoadSince(ctx context.Context, entityID string, after time.Time) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := keyPrefix(entityID)
	// pre-1970 cutoffs, the zero time included, mean "everything"
	var start uint64
	if n := after.UnixNano(); n >= 0 {
		start = uint64(n) + 1
	}
	lower := make([]byte, 0, len(prefix)+8)
	lower = append(lower, prefix...)
	lower = binary.BigEndian.AppendUint64(lower, start)
	upper := make([]byte, 0, len(prefix)+8)
	upper = append(upper, prefix...)
	upper = binary.BigEndian.AppendUint64(upper, ^uint64(0))

	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: upper,
	})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var res []Entry
	for it.First(); it.Valid(); it.Next() {
		e, err := decodeEntry(entityID, prefix, it.Key(), it.Value())
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return res, nil
}

func keyPrefix(entityID string) []byte {
	key := make([]byte, 0, len(entityID)+2)
	key = append(key, 'e')
	key = append(key, entityID...)
	return append(key, 0)
}

func entryKey(entityID string, ts time.Time, id uuid.UUID) []byte {
	key := keyPrefix(entityID)
	key = binary.BigEndian.AppendUint64(key, uint64(ts.UnixNano()))
	return append(key, id[:]...)
}

func decodeEntry(entityID string, prefix, key, val []byte) (Entry, error) {
	rest := key[len(prefix):]
	if len(rest) != 8+16 {
		return Entry{}, fmt.Errorf("malformed change log key of length %d", len(key))
	}
	nanos := binary.BigEndian.Uint64(rest[:8])
	id, err := uuid.FromBytes(rest[8:])
	if err != nil {
		return Entry{}, err
	}
	var cs diff.ChangeSet
	if err := json.Unmarshal(val, &cs); err != nil {
		return Entry{}, fmt.Errorf("decoding change set for %s: %w", entityID, err)
	}
	return Entry{
		ID:        id,
		EntityID:  entityID,
		Timestamp: time.Unix(0, int64(nanos)).UTC(),
		ChangeSet: cs,
	}, nil
}
