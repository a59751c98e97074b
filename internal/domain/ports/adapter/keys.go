package adapter

import (
	"context"

	"voevoda-access/internal/domain/model"
)

// KeyService is the hex port for the remote key-issuing API.
// A non-2xx answer is reported as *domain.StatusError and the body is not decoded.
type KeyService interface {
	Name() string

	// Issue requests a new access code for a name.
	Issue(ctx context.Context, req model.IssueRequest) (*model.KeyResponse, error)
	// Redeem validates a previously issued code.
	Redeem(ctx context.Context, req model.RedeemRequest) (*model.KeyResponse, error)
}
