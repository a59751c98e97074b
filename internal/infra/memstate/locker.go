package memstate

import (
	"context"
	"sync"

	"voevoda-access/internal/domain/ports/repository"
)

var _ repository.SessionLocker = (*Locker)(nil)

type slot struct {
	ch   chan struct{}
	refs int
}

// Locker is a per-session lock for a single portal process.
type Locker struct {
	mu   sync.Mutex
	held map[string]*slot
}

func NewLocker() *Locker {
	return &Locker{held: make(map[string]*slot)}
}

func (l *Locker) Lock(ctx context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	s, ok := l.held[sessionID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.held[sessionID] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				l.release(sessionID, s)
			})
		}, nil
	case <-ctx.Done():
		l.release(sessionID, s)
		return nil, ctx.Err()
	}
}

func (l *Locker) release(sessionID string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.held, sessionID)
	}
}
