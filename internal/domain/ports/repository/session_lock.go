package repository

import "context"

// SessionLocker serializes work on one session's page state, so concurrent
// submits from the same visitor do not overwrite each other.
type SessionLocker interface {
	// Lock blocks until the session is free or ctx is done. The returned
	// func releases the lock.
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}
