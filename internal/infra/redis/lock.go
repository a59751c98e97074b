// File: internal/infra/redis/lock.go
package redis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"voevoda-access/internal/domain/ports/repository"
)

var _ repository.SessionLocker = (*SessionLocker)(nil)

// SessionLocker is a per-session lock shared by every portal replica.
// The lock key expires after ttl so a crashed holder cannot block a session.
type SessionLocker struct {
	client RedisClient
	ttl    time.Duration
	retry  time.Duration
}

func NewSessionLocker(client RedisClient, ttl time.Duration) *SessionLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SessionLocker{client: client, ttl: ttl, retry: 50 * time.Millisecond}
}

func (l *SessionLocker) lockKey(sessionID string) string {
	return "page_state_lock:" + sessionID
}

func (l *SessionLocker) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := l.lockKey(sessionID)
	token := uuid.NewString()
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				// only the holder's token is removed
				_ = l.client.CompareAndDelete(context.Background(), key, token)
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry): // wait before retrying
		}
	}
}
