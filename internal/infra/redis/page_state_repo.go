package redis

import (
	"context"
	"encoding/json"
	"time"

	"voevoda-access/internal/domain"
	"voevoda-access/internal/domain/model"
	"voevoda-access/internal/domain/ports/repository"
	"voevoda-access/internal/infra/metrics"
)

var _ repository.PageStateRepository = (*PageStateRepo)(nil)

// PageStateRepo keeps each visitor's access page state in Redis.
type PageStateRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewPageStateRepo(client RedisClient, ttl time.Duration) *PageStateRepo {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &PageStateRepo{client: client, ttl: ttl}
}

func (s *PageStateRepo) stateKey(sessionID string) string {
	return "page_state:" + sessionID
}

func (s *PageStateRepo) Save(ctx context.Context, sessionID string, state *model.PageState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.stateKey(sessionID), data, s.ttl)
}

func (s *PageStateRepo) Load(ctx context.Context, sessionID string) (*model.PageState, error) {
	data, err := s.client.Get(ctx, s.stateKey(sessionID))
	if IsNil(err) {
		metrics.IncPageStateLookup("redis", "miss")
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	metrics.IncPageStateLookup("redis", "hit")

	var state model.PageState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *PageStateRepo) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.stateKey(sessionID))
}
