package dealers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

type stubDealerRepo struct {
	dealer  *models.Dealer
	rows    []models.Dealer
	err     error
	created *models.Dealer
	deleted bool
}

func (s *stubDealerRepo) Create(_ context.Context, dealer *models.Dealer) error {
	if s.err != nil {
		return s.err
	}
	s.created = dealer
	return nil
}

func (s *stubDealerRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*models.Dealer, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.dealer == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.dealer, nil
}

func (s *stubDealerRepo) FindFallback(_ context.Context, _ uuid.UUID) (*models.Dealer, error) {
	if s.dealer != nil && s.dealer.IsFallback {
		return s.dealer, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDealerRepo) List(_ context.Context, _ uuid.UUID) ([]models.Dealer, error) {
	return s.rows, s.err
}

func (s *stubDealerRepo) Update(_ context.Context, _ *models.Dealer) error {
	return s.err
}

func (s *stubDealerRepo) Delete(_ context.Context, _, _ uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = true
	return nil
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error without repo")
	}
}

func TestServiceCreateRequiresName(t *testing.T) {
	svc, _ := NewService(&stubDealerRepo{})
	_, err := svc.Create(context.Background(), uuid.New(), CreateDealerInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateValidatesRating(t *testing.T) {
	svc, _ := NewService(&stubDealerRepo{})
	rating := 6
	_, err := svc.Create(context.Background(), uuid.New(), CreateDealerInput{Name: "Sunrise Toyota", Rating: &rating})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateSuccess(t *testing.T) {
	repo := &stubDealerRepo{}
	svc, _ := NewService(repo)

	rating := 4
	dto, err := svc.Create(context.Background(), uuid.New(), CreateDealerInput{
		Name:   "Sunrise Toyota",
		Rating: &rating,
	})
	if err != nil {
		t.Fatalf("create dealer: %v", err)
	}
	if dto.Name != "Sunrise Toyota" {
		t.Fatalf("unexpected name %q", dto.Name)
	}
	if repo.created == nil {
		t.Fatal("expected dealer persisted")
	}
}

func TestServiceDeleteProtectsFallback(t *testing.T) {
	repo := &stubDealerRepo{dealer: &models.Dealer{ID: uuid.New(), Name: "Uncategorized", IsFallback: true}}
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), uuid.New(), repo.dealer.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.deleted {
		t.Fatal("fallback dealer must not be deleted")
	}
}

func TestServiceDeleteSuccess(t *testing.T) {
	repo := &stubDealerRepo{dealer: &models.Dealer{ID: uuid.New(), Name: "Sunrise Toyota"}}
	svc, _ := NewService(repo)

	if err := svc.Delete(context.Background(), uuid.New(), repo.dealer.ID); err != nil {
		t.Fatalf("delete dealer: %v", err)
	}
	if !repo.deleted {
		t.Fatal("expected repo delete call")
	}
}

func TestServiceGetNotFound(t *testing.T) {
	svc, _ := NewService(&stubDealerRepo{})
	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
