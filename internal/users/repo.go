package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

// Repo persists user accounts.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, fmt.Errorf("users: db is required")
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListOnboarded returns every account that finished onboarding. The notifier
// walks this set each polling pass.
func (r *Repo) ListOnboarded(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).
		Where("onboarding_completed = ?", true).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// CompleteOnboarding provisions the user's catch-all dealer and deal in one
// transaction, then marks onboarding done. The fallback pair absorbs inbound
// messages that are not yet matched to a real negotiation.
func (r *Repo) CompleteOnboarding(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dealer := &models.Dealer{
			UserID:     user.ID,
			Name:       "Uncategorized",
			IsFallback: true,
		}
		if err := tx.Create(dealer).Error; err != nil {
			return err
		}

		deal := &models.Deal{
			UserID:     user.ID,
			DealerID:   dealer.ID,
			Status:     enums.DealStatusQuoteRequested,
			Priority:   enums.DealPriorityLow,
			IsFallback: true,
		}
		if err := tx.Create(deal).Error; err != nil {
			return err
		}

		user.FallbackDealID = &deal.ID
		user.OnboardingCompleted = true
		return tx.Save(user).Error
	})
}
