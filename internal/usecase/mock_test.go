package usecase

import (
	"context"
	"sync"

	"voevoda-access/internal/domain/model"
)

// fakeKeys is a scripted adapter.KeyService that records calls.
type fakeKeys struct {
	mu sync.Mutex

	issueResp  *model.KeyResponse
	issueErr   error
	redeemResp *model.KeyResponse
	redeemErr  error

	issued   []model.IssueRequest
	redeemed []model.RedeemRequest
}

func (f *fakeKeys) Name() string { return "fake" }

func (f *fakeKeys) Issue(ctx context.Context, req model.IssueRequest) (*model.KeyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, req)
	return f.issueResp, f.issueErr
}

func (f *fakeKeys) Redeem(ctx context.Context, req model.RedeemRequest) (*model.KeyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redeemed = append(f.redeemed, req)
	return f.redeemResp, f.redeemErr
}
