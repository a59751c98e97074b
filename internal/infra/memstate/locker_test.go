package memstate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLocker_SerializesSameSession(t *testing.T) {
	l := NewLocker()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "a")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		u, err := l.Lock(ctx, "a")
		if err == nil {
			close(acquired)
			u()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first is held")
	case <-time.After(20 * time.Millisecond):
	}

	// other sessions are independent
	other, err := l.Lock(ctx, "b")
	if err != nil {
		t.Fatalf("Lock b: %v", err)
	}
	other()

	unlock()
	unlock() // second call is a no-op
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second lock not acquired after unlock")
	}
}

func TestLocker_ContextCancelled(t *testing.T) {
	l := NewLocker()
	unlock, _ := l.Lock(context.Background(), "a")
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, "a"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestLocker_ForgetsReleasedSessions(t *testing.T) {
	l := NewLocker()
	unlock, _ := l.Lock(context.Background(), "a")
	unlock()
	if len(l.held) != 0 {
		t.Fatalf("expected no held slots, got %d", len(l.held))
	}
}
