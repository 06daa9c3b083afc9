package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/internal/deals"
	"github.com/hagglehub/hagglehub-backend/internal/messages"
	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

type stubDealSource struct {
	rows []models.Deal
}

func (s *stubDealSource) List(_ context.Context, _ uuid.UUID, _ deals.Filter) ([]models.Deal, error) {
	return s.rows, nil
}

type stubMessageSource struct {
	unread []models.Message
	lastAt map[uuid.UUID]time.Time
}

func (s *stubMessageSource) List(_ context.Context, _ uuid.UUID, _ messages.Filter) ([]models.Message, error) {
	return s.unread, nil
}

func (s *stubMessageSource) LastActivity(_ context.Context, _ uuid.UUID) (map[uuid.UUID]time.Time, error) {
	return s.lastAt, nil
}

type stubDealerSource struct {
	rows []models.Dealer
}

func (s *stubDealerSource) List(_ context.Context, _ uuid.UUID) ([]models.Dealer, error) {
	return s.rows, nil
}

type stubUserSource struct {
	user *models.User
}

func (s *stubUserSource) GetModel(_ context.Context, _ uuid.UUID) (*models.User, error) {
	return s.user, nil
}

func newAlertService(t *testing.T, dealRows []models.Deal, msgs *stubMessageSource) *Service {
	t.Helper()
	svc, err := NewService(
		&stubDealSource{rows: dealRows},
		msgs,
		&stubDealerSource{},
		&stubUserSource{user: &models.User{ID: uuid.New()}},
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestAlertsTreatReadRepliesAsActivity(t *testing.T) {
	deal := models.Deal{
		ID:        uuid.New(),
		DealerID:  uuid.New(),
		Status:    enums.DealStatusNegotiating,
		CreatedAt: testNow.Add(-10 * 24 * time.Hour),
		UpdatedAt: testNow.Add(-10 * 24 * time.Hour),
	}
	// The dealer's reply arrived yesterday and was read, so it never shows up
	// in the unread set; it must still keep the thread off the follow-up list.
	msgs := &stubMessageSource{
		lastAt: map[uuid.UUID]time.Time{deal.ID: testNow.Add(-24 * time.Hour)},
	}

	svc := newAlertService(t, []models.Deal{deal}, msgs)
	alerts, err := svc.Alerts(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts for an active thread, got %d", len(alerts))
	}
}

func TestAlertsFollowUpWhenThreadGoesQuiet(t *testing.T) {
	deal := models.Deal{
		ID:        uuid.New(),
		DealerID:  uuid.New(),
		Status:    enums.DealStatusNegotiating,
		CreatedAt: testNow.Add(-10 * 24 * time.Hour),
		// A recent row edit is not activity.
		UpdatedAt: testNow.Add(-time.Hour),
	}

	svc := newAlertService(t, []models.Deal{deal}, &stubMessageSource{})
	alerts, err := svc.Alerts(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected one follow-up alert, got %d", len(alerts))
	}
	if alerts[0].Type != enums.AlertTypeFollowUp {
		t.Fatalf("expected follow_up got %s", alerts[0].Type)
	}
}
