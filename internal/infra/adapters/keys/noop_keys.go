package keys

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"voevoda-access/internal/domain"
	"voevoda-access/internal/domain/model"
	"voevoda-access/internal/domain/ports/adapter"
)

var _ adapter.KeyService = (*NoopKeyService)(nil)

// NoopKeyService is a simple in-memory key service to use in tests and dev mode.
// It answers like the real endpoint: six-digit numeric codes, 400 on unknown
// names or codes, and each code redeems once.
type NoopKeyService struct {
	mu    sync.Mutex
	seq   int
	names map[string]struct{} // nil accepts any non-empty name
	codes map[string]string   // code -> name
}

func NewNoopKeyService(names ...string) *NoopKeyService {
	s := &NoopKeyService{codes: make(map[string]string)}
	if len(names) > 0 {
		s.names = make(map[string]struct{}, len(names))
		for _, n := range names {
			s.names[n] = struct{}{}
		}
	}
	return s
}

func (s *NoopKeyService) Name() string { return "noop" }

func (s *NoopKeyService) next() int {
	s.seq++
	return 100000 + s.seq%900000
}

func (s *NoopKeyService) Issue(ctx context.Context, req model.IssueRequest) (*model.KeyResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Name == "" {
		return nil, &domain.StatusError{Code: http.StatusBadRequest}
	}
	if s.names != nil {
		if _, ok := s.names[req.Name]; !ok {
			return nil, &domain.StatusError{Code: http.StatusBadRequest}
		}
	}
	n := s.next()
	s.codes[strconv.Itoa(n)] = req.Name
	return &model.KeyResponse{Success: true, Data: []byte(strconv.Itoa(n))}, nil
}

func (s *NoopKeyService) Redeem(ctx context.Context, req model.RedeemRequest) (*model.KeyResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.codes[req.Code]; !ok {
		return nil, &domain.StatusError{Code: http.StatusBadRequest}
	}
	delete(s.codes, req.Code)
	return &model.KeyResponse{Success: true}, nil
}
