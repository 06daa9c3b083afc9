package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

type stubUserRepo struct {
	user      *models.User
	err       error
	created   *models.User
	updated   *models.User
	onboarded bool
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if s.err != nil {
		return s.err
	}
	s.created = user
	return nil
}

func (s *stubUserRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, _ string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) Update(_ context.Context, user *models.User) error {
	s.updated = user
	return nil
}

func (s *stubUserRepo) CompleteOnboarding(_ context.Context, user *models.User) error {
	s.onboarded = true
	dealID := uuid.New()
	user.FallbackDealID = &dealID
	user.OnboardingCompleted = true
	return nil
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error without repo")
	}
}

func TestEnsureAccountCreatesNewUser(t *testing.T) {
	repo := &stubUserRepo{}
	svc, _ := NewService(repo)

	user, err := svc.EnsureAccount(context.Background(), "buyer@example.com", "Pat Buyer", nil)
	if err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected account created")
	}
	if user.SubscriptionTier != enums.SubscriptionTierFree {
		t.Fatalf("expected free tier default got %s", user.SubscriptionTier)
	}
	if user.OnboardingCompleted {
		t.Fatal("new accounts start before onboarding")
	}
}

func TestEnsureAccountRefreshesProfile(t *testing.T) {
	repo := &stubUserRepo{user: &models.User{ID: uuid.New(), Email: "buyer@example.com", FullName: "Old Name"}}
	svc, _ := NewService(repo)

	avatar := "https://example.com/a.png"
	user, err := svc.EnsureAccount(context.Background(), "buyer@example.com", "New Name", &avatar)
	if err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	if user.FullName != "New Name" {
		t.Fatalf("expected refreshed name got %q", user.FullName)
	}
	if repo.updated == nil {
		t.Fatal("expected profile refresh persisted")
	}
	if repo.created != nil {
		t.Fatal("existing accounts must not be recreated")
	}
}

func TestEnsureAccountRequiresEmail(t *testing.T) {
	svc, _ := NewService(&stubUserRepo{})
	_, err := svc.EnsureAccount(context.Background(), "", "Pat", nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateTierRejectsUnknown(t *testing.T) {
	repo := &stubUserRepo{user: &models.User{ID: uuid.New()}}
	svc, _ := NewService(repo)

	_, err := svc.UpdateTier(context.Background(), repo.user.ID, "platinum")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateTier(t *testing.T) {
	repo := &stubUserRepo{user: &models.User{ID: uuid.New(), SubscriptionTier: enums.SubscriptionTierFree}}
	svc, _ := NewService(repo)

	dto, err := svc.UpdateTier(context.Background(), repo.user.ID, enums.SubscriptionTierHaggler)
	if err != nil {
		t.Fatalf("update tier: %v", err)
	}
	if dto.SubscriptionTier != enums.SubscriptionTierHaggler {
		t.Fatalf("expected haggler got %s", dto.SubscriptionTier)
	}
}

func TestCompleteOnboarding(t *testing.T) {
	repo := &stubUserRepo{user: &models.User{ID: uuid.New()}}
	svc, _ := NewService(repo)

	dto, err := svc.CompleteOnboarding(context.Background(), repo.user.ID)
	if err != nil {
		t.Fatalf("complete onboarding: %v", err)
	}
	if !dto.OnboardingCompleted || dto.FallbackDealID == nil {
		t.Fatalf("expected onboarding completed with fallback deal, got %+v", dto)
	}
	if !repo.onboarded {
		t.Fatal("expected repo onboarding call")
	}
}

func TestCompleteOnboardingIdempotent(t *testing.T) {
	dealID := uuid.New()
	repo := &stubUserRepo{user: &models.User{
		ID:                  uuid.New(),
		OnboardingCompleted: true,
		FallbackDealID:      &dealID,
	}}
	svc, _ := NewService(repo)

	dto, err := svc.CompleteOnboarding(context.Background(), repo.user.ID)
	if err != nil {
		t.Fatalf("complete onboarding: %v", err)
	}
	if repo.onboarded {
		t.Fatal("second onboarding call must be a no-op")
	}
	if dto.FallbackDealID == nil || *dto.FallbackDealID != dealID {
		t.Fatal("expected existing fallback deal preserved")
	}
}
