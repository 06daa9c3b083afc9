package marketdata

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	"github.com/hagglehub/hagglehub-backend/pkg/pagination"
)

// Filter narrows market records by vehicle identity.
type Filter struct {
	Make         *string
	Model        *string
	Year         *int
	MileageRange *enums.MileageRange
	Limit        int
}

// Repo reads and writes the anonymized market outcome pool. Rows are written
// once at deal completion and never updated.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, fmt.Errorf("marketdata: db is required")
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Create(ctx context.Context, row *models.MarketData) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// List returns recent market records matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter Filter) ([]models.MarketData, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Make != nil {
		q = q.Where("vehicle_make = ?", *filter.Make)
	}
	if filter.Model != nil {
		q = q.Where("vehicle_model = ?", *filter.Model)
	}
	if filter.Year != nil {
		q = q.Where("vehicle_year = ?", *filter.Year)
	}
	if filter.MileageRange != nil {
		q = q.Where("mileage_range = ?", *filter.MileageRange)
	}
	q = q.Limit(pagination.NormalizeLimit(filter.Limit))

	var rows []models.MarketData
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
