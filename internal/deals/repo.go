package deals

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

// Repo persists deals scoped to their owning user.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, fmt.Errorf("deals: db is required")
	}
	return &Repo{db: db}, nil
}

// Create inserts a new deal row.
func (r *Repo) Create(ctx context.Context, deal *models.Deal) error {
	return r.db.WithContext(ctx).Create(deal).Error
}

// FindByID loads a single deal owned by userID.
func (r *Repo) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// List returns the user's deals, newest first, optionally narrowed by filter.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter Filter) ([]models.Deal, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if filter.DealerID != nil {
		q = q.Where("dealer_id = ?", *filter.DealerID)
	}
	if filter.VehicleID != nil {
		q = q.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.ActiveOnly {
		q = q.Where("status IN ?", enums.ActiveDealStatuses())
	}

	var rows []models.Deal
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the full deal row.
func (r *Repo) Update(ctx context.Context, deal *models.Deal) error {
	return r.db.WithContext(ctx).Save(deal).Error
}

// SaveCompletion persists the finalized deal and the optional anonymized
// market-data contribution in one transaction. A failed contribution must not
// leave the deal terminal with the shared record lost.
func (r *Repo) SaveCompletion(ctx context.Context, deal *models.Deal, contribution *models.MarketData) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(deal).Error; err != nil {
			return err
		}
		if contribution != nil {
			if err := tx.Create(contribution).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a deal owned by userID. Returns gorm.ErrRecordNotFound when
// nothing matched.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Deal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountActive counts the user's deals in a non-terminal status, excluding the
// fallback deal created during onboarding.
func (r *Repo) CountActive(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("user_id = ? AND is_fallback = ? AND status IN ?", userID, false, enums.ActiveDealStatuses()).
		Count(&n).Error
	return n, err
}
