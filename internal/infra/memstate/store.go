// Package memstate keeps page state in process memory. It backs the portal
// when no Redis address is configured; state is lost on restart.
package memstate

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"voevoda-access/internal/domain"
	"voevoda-access/internal/domain/model"
	"voevoda-access/internal/domain/ports/repository"
	"voevoda-access/internal/infra/metrics"
)

var _ repository.PageStateRepository = (*Store)(nil)

type entry struct {
	data      []byte
	expiresAt time.Time
}

type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{entries: make(map[string]entry), ttl: ttl, now: time.Now}
}

// Values are stored as JSON so callers never share maps or slices with the store.
func (s *Store) Save(ctx context.Context, sessionID string, state *model.PageState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = entry{data: data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *Store) Load(ctx context.Context, sessionID string) (*model.PageState, error) {
	s.mu.Lock()
	e, ok := s.entries[sessionID]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.entries, sessionID)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		metrics.IncPageStateLookup("memory", "miss")
		return nil, domain.ErrNotFound
	}
	metrics.IncPageStateLookup("memory", "hit")
	var state model.PageState
	if err := json.Unmarshal(e.data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}
