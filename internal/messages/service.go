package messages

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/pagination"
)

type messageRepo interface {
	Create(ctx context.Context, message *models.Message) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Message, error)
	List(ctx context.Context, userID uuid.UUID, filter Filter) ([]models.Message, error)
	ListPage(ctx context.Context, userID uuid.UUID, filter Filter, cursor *pagination.Cursor, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkThreadRead(ctx context.Context, userID, dealID uuid.UUID) (int64, error)
}

type dealReader interface {
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Deal, error)
	Update(ctx context.Context, deal *models.Deal) error
}

// Service records deal-thread communication. Inbound bodies are scanned for a
// dollar amount on create, and the first dealer reply moves a fresh deal into
// negotiating.
type Service struct {
	repo  messageRepo
	deals dealReader
}

func NewService(repo messageRepo, deals dealReader) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("messages: repo is required")
	}
	if deals == nil {
		return nil, fmt.Errorf("messages: deal reader is required")
	}
	return &Service{repo: repo, deals: deals}, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter Filter) ([]MessageDTO, error) {
	rows, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list messages")
	}
	return FromModels(rows), nil
}

// Page is one cursor page of messages.
type Page struct {
	Items      []MessageDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// ListPage returns one keyset page of messages plus the cursor for the next
// page, or an empty cursor when this is the last page.
func (s *Service) ListPage(ctx context.Context, userID uuid.UUID, filter Filter, rawCursor string, limit int) (*Page, error) {
	cursor, err := pagination.ParseCursor(rawCursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit = pagination.NormalizeLimit(limit)
	rows, err := s.repo.ListPage(ctx, userID, filter, cursor, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list messages")
	}

	page := &Page{}
	if len(rows) > limit {
		last := rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	page.Items = FromModels(rows)
	return page, nil
}

// Create appends a message to a deal thread the user owns.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateMessageInput) (*MessageDTO, error) {
	if in.Content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	if !in.Direction.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "direction must be inbound or outbound")
	}

	deal, err := s.deals.FindByID(ctx, userID, in.DealID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load deal")
	}

	message := &models.Message{
		UserID:    userID,
		DealID:    deal.ID,
		DealerID:  deal.DealerID,
		Content:   in.Content,
		Subject:   in.Subject,
		Recipient: in.Recipient,
		Direction: in.Direction,
		Channel:   in.Channel,
	}
	if message.Channel == "" {
		message.Channel = enums.MessageChannelApp
	}

	switch in.Direction {
	case enums.MessageDirectionOutbound:
		// The user's own messages never sit unread in their inbox.
		message.IsRead = true
	case enums.MessageDirectionInbound:
		if price := ExtractPrice(in.Content); price != nil {
			message.ContainsOffer = true
			message.ExtractedPrice = price
		}
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create message")
	}

	if in.Direction == enums.MessageDirectionInbound && deal.Status == enums.DealStatusQuoteRequested {
		deal.Status = enums.DealStatusNegotiating
		if err := s.deals.Update(ctx, deal); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to advance deal status")
		}
	}

	return FromModel(message), nil
}

// MarkRead flags one message as read.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.MarkRead(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to mark message read")
	}
	return nil
}

// MarkThreadRead clears the unread flag for an entire deal thread.
func (s *Service) MarkThreadRead(ctx context.Context, userID, dealID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkThreadRead(ctx, userID, dealID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to mark thread read")
	}
	return n, nil
}
