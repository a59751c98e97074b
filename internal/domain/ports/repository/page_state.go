package repository

import (
	"context"

	"voevoda-access/internal/domain/model"
)

// PageStateRepository keeps host-side page state per visitor session.
// Load returns domain.ErrNotFound for unknown or expired sessions.
type PageStateRepository interface {
	Load(ctx context.Context, sessionID string) (*model.PageState, error)
	Save(ctx context.Context, sessionID string, state *model.PageState) error
	Clear(ctx context.Context, sessionID string) error
}
