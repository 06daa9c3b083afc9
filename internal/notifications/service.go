package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/internal/deals"
	"github.com/hagglehub/hagglehub-backend/internal/messages"
	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

type dealLister interface {
	List(ctx context.Context, userID uuid.UUID, filter deals.Filter) ([]models.Deal, error)
}

type messageLister interface {
	List(ctx context.Context, userID uuid.UUID, filter messages.Filter) ([]models.Message, error)
	LastActivity(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]time.Time, error)
}

type dealerLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Dealer, error)
}

type userLoader interface {
	GetModel(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service derives the user's notification list on demand. Nothing is stored;
// every read reflects the current deal and message state.
type Service struct {
	deals    dealLister
	messages messageLister
	dealers  dealerLister
	users    userLoader
	now      func() time.Time
}

func NewService(dealRepo dealLister, messageRepo messageLister, dealerRepo dealerLister, users userLoader) (*Service, error) {
	if dealRepo == nil {
		return nil, fmt.Errorf("notifications: deal lister is required")
	}
	if messageRepo == nil {
		return nil, fmt.Errorf("notifications: message lister is required")
	}
	if dealerRepo == nil {
		return nil, fmt.Errorf("notifications: dealer lister is required")
	}
	if users == nil {
		return nil, fmt.Errorf("notifications: user loader is required")
	}
	return &Service{
		deals:    dealRepo,
		messages: messageRepo,
		dealers:  dealerRepo,
		users:    users,
		now:      time.Now,
	}, nil
}

// Alerts loads the user's snapshot and derives their notifications.
func (s *Service) Alerts(ctx context.Context, userID uuid.UUID) ([]Alert, error) {
	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildAlerts(*snapshot), nil
}

func (s *Service) snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	user, err := s.users.GetModel(ctx, userID)
	if err != nil {
		return nil, err
	}

	dealRows, err := s.deals.List(ctx, userID, deals.Filter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load deals")
	}

	unread := false
	messageRows, err := s.messages.List(ctx, userID, messages.Filter{IsRead: &unread})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load unread messages")
	}

	// Follow-up staleness looks at the whole thread, read or not: a dealer
	// reply the user already read still counts as recent activity.
	lastMessageAt, err := s.messages.LastActivity(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load message activity")
	}

	dealerRows, err := s.dealers.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load dealers")
	}
	names := make(map[uuid.UUID]string, len(dealerRows))
	for _, d := range dealerRows {
		names[d.ID] = d.Name
	}

	return &Snapshot{
		Now:            s.now(),
		Deals:          dealRows,
		UnreadInbound:  messageRows,
		LastMessageAt:  lastMessageAt,
		DealerNames:    names,
		FallbackDealID: user.FallbackDealID,
	}, nil
}
