package dealers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
)

// Repo persists dealer contacts scoped to their owning user.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, fmt.Errorf("dealers: db is required")
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Create(ctx context.Context, dealer *models.Dealer) error {
	return r.db.WithContext(ctx).Create(dealer).Error
}

func (r *Repo) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Dealer, error) {
	var dealer models.Dealer
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&dealer).Error
	if err != nil {
		return nil, err
	}
	return &dealer, nil
}

// FindFallback returns the user's catch-all dealer created during onboarding.
func (r *Repo) FindFallback(ctx context.Context, userID uuid.UUID) (*models.Dealer, error) {
	var dealer models.Dealer
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_fallback = ?", userID, true).
		First(&dealer).Error
	if err != nil {
		return nil, err
	}
	return &dealer, nil
}

func (r *Repo) List(ctx context.Context, userID uuid.UUID) ([]models.Dealer, error) {
	var rows []models.Dealer
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) Update(ctx context.Context, dealer *models.Dealer) error {
	return r.db.WithContext(ctx).Save(dealer).Error
}

func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Dealer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
