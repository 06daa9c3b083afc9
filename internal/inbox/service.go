package inbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/internal/dealers"
	"github.com/hagglehub/hagglehub-backend/internal/deals"
	"github.com/hagglehub/hagglehub-backend/internal/messages"
	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

type messageStore interface {
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Message, error)
	List(ctx context.Context, userID uuid.UUID, filter messages.Filter) ([]models.Message, error)
	Reassign(ctx context.Context, userID, id, dealID, dealerID uuid.UUID) error
}

type dealStore interface {
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Deal, error)
}

type dealCreator interface {
	Create(ctx context.Context, user *models.User, in deals.CreateDealInput) (*deals.DealDTO, error)
}

type dealerCreator interface {
	Create(ctx context.Context, userID uuid.UUID, in dealers.CreateDealerInput) (*dealers.DealerDTO, error)
}

type userLoader interface {
	GetModel(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service triages uncategorized inbound messages: the ones parked on the
// user's fallback deal until they are attached to a real negotiation or spun
// into a new one.
type Service struct {
	messages   messageStore
	deals      dealStore
	newDeals   dealCreator
	newDealers dealerCreator
	users      userLoader
}

func NewService(msgs messageStore, dealRepo dealStore, dealSvc dealCreator, dealerSvc dealerCreator, users userLoader) (*Service, error) {
	if msgs == nil {
		return nil, fmt.Errorf("inbox: message store is required")
	}
	if dealRepo == nil {
		return nil, fmt.Errorf("inbox: deal store is required")
	}
	if dealSvc == nil {
		return nil, fmt.Errorf("inbox: deal creator is required")
	}
	if dealerSvc == nil {
		return nil, fmt.Errorf("inbox: dealer creator is required")
	}
	if users == nil {
		return nil, fmt.Errorf("inbox: user loader is required")
	}
	return &Service{messages: msgs, deals: dealRepo, newDeals: dealSvc, newDealers: dealerSvc, users: users}, nil
}

// ListUnmatched returns the messages waiting on the fallback deal, newest
// first. Users who have not finished onboarding have an empty inbox.
func (s *Service) ListUnmatched(ctx context.Context, userID uuid.UUID) ([]messages.MessageDTO, error) {
	user, err := s.users.GetModel(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.FallbackDealID == nil {
		return []messages.MessageDTO{}, nil
	}

	rows, err := s.messages.List(ctx, userID, messages.Filter{DealID: user.FallbackDealID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list unmatched messages")
	}
	return messages.FromModels(rows), nil
}

// Attach moves an unmatched message onto an existing deal.
func (s *Service) Attach(ctx context.Context, userID, messageID, dealID uuid.UUID) (*messages.MessageDTO, error) {
	message, err := s.loadUnmatched(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}

	deal, err := s.deals.FindByID(ctx, userID, dealID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load deal")
	}
	if deal.IsFallback {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot attach to the uncategorized deal")
	}

	if err := s.messages.Reassign(ctx, userID, message.ID, deal.ID, deal.DealerID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to attach message")
	}
	message.DealID = deal.ID
	message.DealerID = deal.DealerID
	return messages.FromModel(message), nil
}

// CreateDealInput starts a new negotiation from an unmatched message. Either
// an existing dealer or a new dealer name must be supplied.
type CreateDealInput struct {
	DealerID      *uuid.UUID
	NewDealerName string
	Deal          deals.CreateDealInput
}

// CreateDeal spins an unmatched message into a fresh negotiation, creating
// the dealer contact when needed, then moves the message onto the new deal.
func (s *Service) CreateDeal(ctx context.Context, userID, messageID uuid.UUID, in CreateDealInput) (*deals.DealDTO, error) {
	message, err := s.loadUnmatched(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetModel(ctx, userID)
	if err != nil {
		return nil, err
	}

	dealerID := in.DealerID
	if dealerID == nil {
		if in.NewDealerName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer_id or new dealer name is required")
		}
		dealer, err := s.newDealers.Create(ctx, userID, dealers.CreateDealerInput{Name: in.NewDealerName})
		if err != nil {
			return nil, err
		}
		dealerID = &dealer.ID
	}

	dealInput := in.Deal
	dealInput.DealerID = *dealerID
	deal, err := s.newDeals.Create(ctx, user, dealInput)
	if err != nil {
		return nil, err
	}

	if err := s.messages.Reassign(ctx, userID, message.ID, deal.ID, deal.DealerID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to move message onto new deal")
	}
	return deal, nil
}

func (s *Service) loadUnmatched(ctx context.Context, userID, messageID uuid.UUID) (*models.Message, error) {
	message, err := s.messages.FindByID(ctx, userID, messageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load message")
	}
	return message, nil
}
