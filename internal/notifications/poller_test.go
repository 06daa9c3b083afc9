package notifications

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
)

type stubLock struct {
	locked   bool
	err      error
	acquired int
	released int
}

func (l *stubLock) Acquire(_ context.Context) (bool, error) {
	l.acquired++
	return l.locked, l.err
}

func (l *stubLock) Release(_ context.Context) error {
	l.released++
	return nil
}

type stubAccounts struct {
	rows []models.User
	err  error
}

func (s *stubAccounts) ListOnboarded(_ context.Context) ([]models.User, error) {
	return s.rows, s.err
}

type stubAlerts struct {
	alerts  map[uuid.UUID][]Alert
	err     error
	failFor uuid.UUID
	calls   int
}

func (s *stubAlerts) Alerts(_ context.Context, userID uuid.UUID) ([]Alert, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.failFor != uuid.Nil && userID == s.failFor {
		return nil, errors.New("boom")
	}
	return s.alerts[userID], nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
}

func newTestPoller(t *testing.T, lock Lock, accounts accountLister, alerts alertSource) *Poller {
	t.Helper()
	p, err := NewPoller(PollerParams{
		Logger:      testLogger(),
		Accounts:    accounts,
		Alerts:      alerts,
		Lock:        lock,
		Interval:    time.Minute,
		BackoffBase: time.Millisecond,
		BackoffCap:  2 * time.Millisecond,
		MaxTries:    2,
	})
	if err != nil {
		t.Fatalf("new poller: %v", err)
	}
	return p
}

func TestNewPollerValidatesDeps(t *testing.T) {
	_, err := NewPoller(PollerParams{})
	if err == nil {
		t.Fatal("expected error without deps")
	}
}

func TestPollerCycleDerivesAllUsers(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()
	accounts := &stubAccounts{rows: []models.User{{ID: userA}, {ID: userB}}}
	alerts := &stubAlerts{alerts: map[uuid.UUID][]Alert{
		userA: {{Title: "one"}, {Title: "two"}},
		userB: {{Title: "three"}},
	}}
	lock := &stubLock{locked: true}
	p := newTestPoller(t, lock, accounts, alerts)

	if err := p.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if alerts.calls != 2 {
		t.Fatalf("expected 2 derivations got %d", alerts.calls)
	}
	if lock.released != 1 {
		t.Fatal("expected lock released")
	}
}

func TestPollerCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	accounts := &stubAccounts{rows: []models.User{{ID: uuid.New()}}}
	alerts := &stubAlerts{}
	p := newTestPoller(t, &stubLock{locked: false}, accounts, alerts)

	if err := p.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if alerts.calls != 0 {
		t.Fatal("expected no derivation when lock is held elsewhere")
	}
}

func TestPollerCyclePropagatesListFailure(t *testing.T) {
	accounts := &stubAccounts{err: errors.New("db down")}
	p := newTestPoller(t, &stubLock{locked: true}, accounts, &stubAlerts{})

	if err := p.runCycle(context.Background()); err == nil {
		t.Fatal("expected cycle failure")
	}
}

func TestPollerRetryGivesUpAfterMaxTries(t *testing.T) {
	accounts := &stubAccounts{err: errors.New("db down")}
	lock := &stubLock{locked: true}
	p := newTestPoller(t, lock, accounts, &stubAlerts{})

	p.runWithRetry(context.Background())
	// First attempt plus two retries.
	if lock.acquired != 3 {
		t.Fatalf("expected 3 attempts got %d", lock.acquired)
	}
}

func TestPollerContinuesPastUserFailure(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()
	accounts := &stubAccounts{rows: []models.User{{ID: userA}, {ID: userB}}}
	alerts := &stubAlerts{
		failFor: userA,
		alerts:  map[uuid.UUID][]Alert{userB: {{Type: "follow_up"}}},
	}
	p := newTestPoller(t, &stubLock{locked: true}, accounts, alerts)

	// One user's failure marks the pass failed, but every user is still
	// attempted.
	err := p.runCycle(context.Background())
	if err == nil {
		t.Fatal("expected error from failed user")
	}
	if alerts.calls != 2 {
		t.Fatalf("expected both users attempted, got %d calls", alerts.calls)
	}
}
