package messages

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/pagination"
)

type stubMessageRepo struct {
	created   *models.Message
	rows      []models.Message
	err       error
	readCount int64
	notFound  bool
}

func (s *stubMessageRepo) Create(_ context.Context, message *models.Message) error {
	if s.err != nil {
		return s.err
	}
	s.created = message
	return nil
}

func (s *stubMessageRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*models.Message, error) {
	if s.notFound {
		return nil, gorm.ErrRecordNotFound
	}
	return s.created, s.err
}

func (s *stubMessageRepo) List(_ context.Context, _ uuid.UUID, _ Filter) ([]models.Message, error) {
	return s.rows, s.err
}

func (s *stubMessageRepo) ListPage(_ context.Context, _ uuid.UUID, _ Filter, _ *pagination.Cursor, limit int) ([]models.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.rows) > limit+1 {
		return s.rows[:limit+1], nil
	}
	return s.rows, nil
}

func (s *stubMessageRepo) MarkRead(_ context.Context, _, _ uuid.UUID) error {
	if s.notFound {
		return gorm.ErrRecordNotFound
	}
	return s.err
}

func (s *stubMessageRepo) MarkThreadRead(_ context.Context, _, _ uuid.UUID) (int64, error) {
	return s.readCount, s.err
}

type stubDealReader struct {
	deal    *models.Deal
	err     error
	updated *models.Deal
}

func (s *stubDealReader) FindByID(_ context.Context, _, _ uuid.UUID) (*models.Deal, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.deal == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.deal, nil
}

func (s *stubDealReader) Update(_ context.Context, deal *models.Deal) error {
	s.updated = deal
	return nil
}

func negotiatingDeal() *models.Deal {
	return &models.Deal{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		DealerID: uuid.New(),
		Status:   enums.DealStatusNegotiating,
	}
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(nil, &stubDealReader{}); err == nil {
		t.Fatal("expected error without repo")
	}
	if _, err := NewService(&stubMessageRepo{}, nil); err == nil {
		t.Fatal("expected error without deal reader")
	}
}

func TestServiceCreateInboundScansForOffer(t *testing.T) {
	repo := &stubMessageRepo{}
	deal := negotiatingDeal()
	svc, _ := NewService(repo, &stubDealReader{deal: deal})

	dto, err := svc.Create(context.Background(), deal.UserID, CreateMessageInput{
		DealID:    deal.ID,
		Content:   "We can do $24,500 out the door",
		Direction: enums.MessageDirectionInbound,
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	if !dto.ContainsOffer {
		t.Fatal("expected contains_offer")
	}
	if dto.ExtractedPrice == nil || !dto.ExtractedPrice.Equal(decimal.RequireFromString("24500")) {
		t.Fatalf("expected extracted price 24500, got %v", dto.ExtractedPrice)
	}
	if dto.DealerID != deal.DealerID {
		t.Fatal("expected dealer inherited from deal")
	}
	if dto.Channel != enums.MessageChannelApp {
		t.Fatalf("expected app channel default got %s", dto.Channel)
	}
}

func TestServiceCreateInboundWithoutOffer(t *testing.T) {
	repo := &stubMessageRepo{}
	deal := negotiatingDeal()
	svc, _ := NewService(repo, &stubDealReader{deal: deal})

	dto, err := svc.Create(context.Background(), deal.UserID, CreateMessageInput{
		DealID:    deal.ID,
		Content:   "Let me check with my manager",
		Direction: enums.MessageDirectionInbound,
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	if dto.ContainsOffer || dto.ExtractedPrice != nil {
		t.Fatal("expected no offer detected")
	}
}

func TestServiceCreateFirstReplyAdvancesDeal(t *testing.T) {
	deal := negotiatingDeal()
	deal.Status = enums.DealStatusQuoteRequested
	deals := &stubDealReader{deal: deal}
	svc, _ := NewService(&stubMessageRepo{}, deals)

	_, err := svc.Create(context.Background(), deal.UserID, CreateMessageInput{
		DealID:    deal.ID,
		Content:   "Thanks for reaching out, here is our quote",
		Direction: enums.MessageDirectionInbound,
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	if deals.updated == nil || deals.updated.Status != enums.DealStatusNegotiating {
		t.Fatal("expected deal advanced to negotiating")
	}
}

func TestServiceCreateOutboundDoesNotAdvanceDeal(t *testing.T) {
	deal := negotiatingDeal()
	deal.Status = enums.DealStatusQuoteRequested
	deals := &stubDealReader{deal: deal}
	repo := &stubMessageRepo{}
	svc, _ := NewService(repo, deals)

	dto, err := svc.Create(context.Background(), deal.UserID, CreateMessageInput{
		DealID:    deal.ID,
		Content:   "Can you do $25,000?",
		Direction: enums.MessageDirectionOutbound,
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	if deals.updated != nil {
		t.Fatal("outbound messages must not advance the deal")
	}
	if !dto.IsRead {
		t.Fatal("own messages start read")
	}
	if dto.ContainsOffer {
		t.Fatal("outbound messages are not scanned for offers")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _ := NewService(&stubMessageRepo{}, &stubDealReader{deal: negotiatingDeal()})

	_, err := svc.Create(context.Background(), uuid.New(), CreateMessageInput{
		DealID:    uuid.New(),
		Direction: enums.MessageDirectionInbound,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty content, got %v", err)
	}

	_, err = svc.Create(context.Background(), uuid.New(), CreateMessageInput{
		DealID:    uuid.New(),
		Content:   "hello",
		Direction: "sideways",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad direction, got %v", err)
	}
}

func TestServiceCreateDealNotFound(t *testing.T) {
	svc, _ := NewService(&stubMessageRepo{}, &stubDealReader{})
	_, err := svc.Create(context.Background(), uuid.New(), CreateMessageInput{
		DealID:    uuid.New(),
		Content:   "hello",
		Direction: enums.MessageDirectionOutbound,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceMarkReadNotFound(t *testing.T) {
	svc, _ := NewService(&stubMessageRepo{notFound: true}, &stubDealReader{})
	err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceListPageCursors(t *testing.T) {
	rows := make([]models.Message, 3)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = models.Message{
			ID:        uuid.New(),
			DealID:    uuid.New(),
			Content:   "hello",
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		}
	}
	svc, _ := NewService(&stubMessageRepo{rows: rows}, &stubDealReader{})

	page, err := svc.ListPage(context.Background(), uuid.New(), Filter{}, "", 2)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor when more rows exist")
	}

	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if cursor.ID != rows[1].ID {
		t.Fatalf("cursor should point at the last returned row")
	}
}

func TestServiceListPageLastPage(t *testing.T) {
	rows := []models.Message{{ID: uuid.New(), Content: "only one"}}
	svc, _ := NewService(&stubMessageRepo{rows: rows}, &stubDealReader{})

	page, err := svc.ListPage(context.Background(), uuid.New(), Filter{}, "", 25)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page.Items) != 1 || page.NextCursor != "" {
		t.Fatalf("expected single item and no cursor, got %d items cursor %q", len(page.Items), page.NextCursor)
	}
}

func TestServiceListPageRejectsBadCursor(t *testing.T) {
	svc, _ := NewService(&stubMessageRepo{}, &stubDealReader{})
	_, err := svc.ListPage(context.Background(), uuid.New(), Filter{}, "%%%not-base64%%%", 10)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
