package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openshelf/openshelf-server/internal/store"
)

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := newTestCustomer("sess@example.com", "Session Owner")
	if err := s.CreateCustomer(ctx, customer); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	session := newTestSession(customer.ID, time.Hour)
	if err := s.CreateSession(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := s.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.CustomerID != customer.ID {
		t.Errorf("customer_id = %q, want %q", got.CustomerID, customer.ID)
	}
	if got.IPAddress != "127.0.0.1" || got.UserAgent != "test-agent" {
		t.Errorf("metadata = %q/%q", got.IPAddress, got.UserAgent)
	}

	if err := s.TouchSession(ctx, session.ID); err != nil {
		t.Fatalf("touch session: %v", err)
	}

	if err := s.DeleteSession(ctx, session.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := s.GetSession(ctx, session.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get deleted session: got %v, want ErrNotFound", err)
	}
}

func TestDeleteCustomerSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := newTestCustomer("multi@example.com", "Multi Device")
	if err := s.CreateCustomer(ctx, customer); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	ids := make([]string, 3)
	for i := range ids {
		session := newTestSession(customer.ID, time.Hour)
		if err := s.CreateSession(ctx, session); err != nil {
			t.Fatalf("create session %d: %v", i, err)
		}
		ids[i] = session.ID
	}

	if err := s.DeleteCustomerSessions(ctx, customer.ID); err != nil {
		t.Fatalf("delete customer sessions: %v", err)
	}
	for _, sessID := range ids {
		if _, err := s.GetSession(ctx, sessID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("session %s still present: %v", sessID, err)
		}
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := newTestCustomer("expiry@example.com", "Expiry")
	if err := s.CreateCustomer(ctx, customer); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	expired := newTestSession(customer.ID, -time.Minute)
	live := newTestSession(customer.ID, time.Hour)
	if err := s.CreateSession(ctx, expired); err != nil {
		t.Fatalf("create expired: %v", err)
	}
	if err := s.CreateSession(ctx, live); err != nil {
		t.Fatalf("create live: %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}

	if _, err := s.GetSession(ctx, expired.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expired session survived: %v", err)
	}
	if _, err := s.GetSession(ctx, live.ID); err != nil {
		t.Errorf("live session missing: %v", err)
	}
}

func TestSessionCascadeOnCustomerDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := newTestCustomer("cascade@example.com", "Cascade")
	if err := s.CreateCustomer(ctx, customer); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	session := newTestSession(customer.ID, time.Hour)
	if err := s.CreateSession(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := s.DeleteCustomer(ctx, customer.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	if _, err := s.GetSession(ctx, session.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("session survived customer delete: %v", err)
	}
}
