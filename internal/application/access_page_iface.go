package application

import "context"

// AccessUseCaseIface is the surface of usecase.AccessUseCase the page needs.
type AccessUseCaseIface interface {
	IssueAccessCode(ctx context.Context, name string) (string, error)
	RedeemAccessCode(ctx context.Context, code string) (string, error)
}
