package changelog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/toninf/sqalchemy-deepdiff/diff"
)

// MemStore keeps the change log in memory, ordered per entity by
// timestamp. Suited to tests and small tools.
type MemStore struct {
	mu      sync.Mutex
	entries map[string][]Entry
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{entries: map[string][]Entry{}}
}

func (s *MemStore) Save(ctx context.Context, entityID string, ts time.Time, cs diff.ChangeSet) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	e := Entry{
		ID:        uuid.New(),
		EntityID:  entityID,
		Timestamp: ts,
		ChangeSet: cs,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	es := s.entries[entityID]
	i := sort.Search(len(es), func(i int) bool {
		return es[i].Timestamp.After(ts)
	})
	es = append(es, Entry{})
	copy(es[i+1:], es[i:])
	es[i] = e
	s.entries[entityID] = es
	return e.ID, nil
}

func (s *MemStore) LoadSince(ctx context.Context, entityID string, after time.Time) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	es := s.entries[entityID]
	i := sort.Search(len(es), func(i int) bool {
		return es[i].Timestamp.After(after)
	})
	res := make([]Entry, len(es)-i)
	copy(res, es[i:])
	return res, nil
}
