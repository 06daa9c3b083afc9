package deals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

type stubDealRepo struct {
	deal         *models.Deal
	deals        []models.Deal
	err          error
	activeCount  int64
	created      *models.Deal
	updated      *models.Deal
	completed    *models.Deal
	contribution *models.MarketData
	lastFilter   Filter
}

func (s *stubDealRepo) Create(_ context.Context, deal *models.Deal) error {
	if s.err != nil {
		return s.err
	}
	s.created = deal
	return nil
}

func (s *stubDealRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*models.Deal, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.deal == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.deal, nil
}

func (s *stubDealRepo) List(_ context.Context, _ uuid.UUID, filter Filter) ([]models.Deal, error) {
	s.lastFilter = filter
	return s.deals, s.err
}

func (s *stubDealRepo) Update(_ context.Context, deal *models.Deal) error {
	if s.err != nil {
		return s.err
	}
	s.updated = deal
	return nil
}

func (s *stubDealRepo) Delete(_ context.Context, _, _ uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	if s.deal == nil {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *stubDealRepo) CountActive(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.activeCount, nil
}

func (s *stubDealRepo) SaveCompletion(_ context.Context, deal *models.Deal, contribution *models.MarketData) error {
	if s.err != nil {
		return s.err
	}
	s.completed = deal
	s.contribution = contribution
	return nil
}

type stubVehicleReader struct {
	vehicle *models.Vehicle
	count   int64
	err     error
}

func (s stubVehicleReader) FindByID(_ context.Context, _, _ uuid.UUID) (*models.Vehicle, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.vehicle == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.vehicle, nil
}

func (s stubVehicleReader) CountByUser(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.count, s.err
}

func baseUser(tier enums.SubscriptionTier) *models.User {
	return &models.User{ID: uuid.New(), Email: "buyer@example.com", SubscriptionTier: tier}
}

func baseDeal(status enums.DealStatus) *models.Deal {
	return &models.Deal{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		DealerID:  uuid.New(),
		Status:    status,
		CreatedAt: time.Now().Add(-72 * time.Hour),
	}
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(nil, stubVehicleReader{}); err == nil {
		t.Fatal("expected error without repo")
	}
	if _, err := NewService(&stubDealRepo{}, nil); err == nil {
		t.Fatal("expected error without vehicle reader")
	}
}

func TestServiceCreateDefaults(t *testing.T) {
	repo := &stubDealRepo{}
	svc, err := NewService(repo, stubVehicleReader{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), baseUser(enums.SubscriptionTierNegotiator), CreateDealInput{
		DealerID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create deal: %v", err)
	}
	if dto.Status != enums.DealStatusQuoteRequested {
		t.Fatalf("expected quote_requested got %s", dto.Status)
	}
	if repo.created.PurchaseType != enums.PurchaseTypeCash {
		t.Fatalf("expected cash default got %s", repo.created.PurchaseType)
	}
	if repo.created.Priority != enums.DealPriorityMedium {
		t.Fatalf("expected medium default got %s", repo.created.Priority)
	}
}

func TestServiceCreateRequiresDealer(t *testing.T) {
	svc, _ := NewService(&stubDealRepo{}, stubVehicleReader{})
	_, err := svc.Create(context.Background(), baseUser(enums.SubscriptionTierFree), CreateDealInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateRejectsNegativeAskingPrice(t *testing.T) {
	svc, _ := NewService(&stubDealRepo{}, stubVehicleReader{})
	_, err := svc.Create(context.Background(), baseUser(enums.SubscriptionTierNegotiator), CreateDealInput{
		DealerID:    uuid.New(),
		AskingPrice: dec("-32000"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceUpdateRejectsNegativeOffer(t *testing.T) {
	repo := &stubDealRepo{deal: baseDeal(enums.DealStatusNegotiating)}
	svc, _ := NewService(repo, stubVehicleReader{})
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateDealInput{
		CurrentOffer: dec("-1"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateEnforcesFreePlanVehicleLimit(t *testing.T) {
	svc, _ := NewService(&stubDealRepo{}, stubVehicleReader{count: 1})
	_, err := svc.Create(context.Background(), baseUser(enums.SubscriptionTierFree), CreateDealInput{
		DealerID: uuid.New(),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePlanLimit {
		t.Fatalf("expected plan limit error, got %v", err)
	}
}

func TestServiceCreateEnforcesPaidPlanActiveDealLimit(t *testing.T) {
	repo := &stubDealRepo{activeCount: 3}
	svc, _ := NewService(repo, stubVehicleReader{count: 5})
	_, err := svc.Create(context.Background(), baseUser(enums.SubscriptionTierHaggler), CreateDealInput{
		DealerID: uuid.New(),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePlanLimit {
		t.Fatalf("expected plan limit error, got %v", err)
	}
}

func TestServiceCreateFallbackBypassesPlanLimit(t *testing.T) {
	repo := &stubDealRepo{activeCount: 99}
	svc, _ := NewService(repo, stubVehicleReader{count: 99})
	dto, err := svc.Create(context.Background(), baseUser(enums.SubscriptionTierFree), CreateDealInput{
		DealerID:   uuid.New(),
		IsFallback: true,
	})
	if err != nil {
		t.Fatalf("create fallback deal: %v", err)
	}
	if !dto.IsFallback {
		t.Fatal("expected fallback deal")
	}
}

func TestServiceUpdateRejectsOfferMutationOnTerminalDeal(t *testing.T) {
	repo := &stubDealRepo{deal: baseDeal(enums.DealStatusWon)}
	svc, _ := NewService(repo, stubVehicleReader{})

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateDealInput{
		CurrentOffer: dec("25000"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestServiceUpdateAllowsNotesOnTerminalDeal(t *testing.T) {
	repo := &stubDealRepo{deal: baseDeal(enums.DealStatusLost)}
	svc, _ := NewService(repo, stubVehicleReader{})

	notes := "dealer called back after close"
	dto, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateDealInput{Notes: &notes})
	if err != nil {
		t.Fatalf("update notes: %v", err)
	}
	if dto.NegotiationNotes == nil || *dto.NegotiationNotes != notes {
		t.Fatalf("expected notes saved, got %v", dto.NegotiationNotes)
	}
}

func TestServiceUpdateRejectsIllegalTransition(t *testing.T) {
	repo := &stubDealRepo{deal: baseDeal(enums.DealStatusQuoteRequested)}
	svc, _ := NewService(repo, stubVehicleReader{})

	next := enums.DealStatusWon
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateDealInput{Status: &next})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestServiceUpdateAppliesTransition(t *testing.T) {
	repo := &stubDealRepo{deal: baseDeal(enums.DealStatusQuoteRequested)}
	svc, _ := NewService(repo, stubVehicleReader{})

	next := enums.DealStatusNegotiating
	dto, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateDealInput{Status: &next})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if dto.Status != enums.DealStatusNegotiating {
		t.Fatalf("expected negotiating got %s", dto.Status)
	}
}

func TestServiceCompleteSharedWinWritesMarketData(t *testing.T) {
	vehicleID := uuid.New()
	deal := baseDeal(enums.DealStatusNegotiating)
	deal.VehicleID = &vehicleID
	deal.AskingPrice = dec("30000")
	repo := &stubDealRepo{deal: deal}
	svc, _ := NewService(repo, stubVehicleReader{
		vehicle: &models.Vehicle{ID: vehicleID, Year: 2024, Make: "Honda", Model: "CR-V", Mileage: 8000},
	})

	dto, err := svc.Complete(context.Background(), deal.UserID, deal.ID, CompletionInput{
		Outcome:          OutcomeWon,
		FinalPrice:       dec("28000"),
		ShareAnonymously: true,
	})
	if err != nil {
		t.Fatalf("complete deal: %v", err)
	}
	if dto.Status != enums.DealStatusWon {
		t.Fatalf("expected deal_won got %s", dto.Status)
	}
	if repo.contribution == nil {
		t.Fatal("expected market data record")
	}
	if repo.contribution.MileageRange != enums.MileageRange0To10k {
		t.Fatalf("expected 0-10k bucket got %s", repo.contribution.MileageRange)
	}
	if repo.completed == nil {
		t.Fatal("expected deal persisted")
	}
}

func TestServiceCompleteNotFound(t *testing.T) {
	svc, _ := NewService(&stubDealRepo{}, stubVehicleReader{})
	_, err := svc.Complete(context.Background(), uuid.New(), uuid.New(), CompletionInput{Outcome: OutcomeLost})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceDeleteNotFound(t *testing.T) {
	svc, _ := NewService(&stubDealRepo{}, stubVehicleReader{})
	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
