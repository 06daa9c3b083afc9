package deals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

func setupDealsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:deals_repo_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS deals (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  vehicle_id TEXT,
  dealer_id TEXT NOT NULL,
  asking_price NUMERIC,
  current_offer NUMERIC,
  target_price NUMERIC,
  fees_breakdown TEXT,
  purchase_type TEXT NOT NULL DEFAULT 'cash',
  status TEXT NOT NULL DEFAULT 'quote_requested',
  priority TEXT NOT NULL DEFAULT 'medium',
  quote_expires DATETIME,
  negotiation_notes TEXT,
  final_price NUMERIC,
  negotiation_duration_days INTEGER,
  shared_anonymously INTEGER NOT NULL DEFAULT 0,
  is_fallback INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS market_data (
  id TEXT PRIMARY KEY,
  vehicle_year INTEGER NOT NULL,
  vehicle_make TEXT NOT NULL,
  vehicle_model TEXT NOT NULL,
  vehicle_trim TEXT,
  mileage_range TEXT NOT NULL,
  purchase_type TEXT NOT NULL,
  asking_price NUMERIC NOT NULL,
  final_price NUMERIC NOT NULL,
  savings_amount NUMERIC NOT NULL,
  savings_percentage NUMERIC NOT NULL,
  negotiation_duration_days INTEGER NOT NULL,
  region TEXT NOT NULL DEFAULT 'other',
  deal_outcome TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedDeal(t *testing.T, db *gorm.DB, userID uuid.UUID, status enums.DealStatus, fallback bool) *models.Deal {
	t.Helper()
	deal := &models.Deal{
		UserID:     userID,
		DealerID:   uuid.New(),
		Status:     status,
		Priority:   enums.DealPriorityMedium,
		IsFallback: fallback,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}

func TestRepoFindByIDScopedToUser(t *testing.T) {
	db := setupDealsTestDB(t)
	repo, err := NewRepo(db)
	require.NoError(t, err)

	owner := uuid.New()
	deal := seedDeal(t, db, owner, enums.DealStatusNegotiating, false)

	found, err := repo.FindByID(context.Background(), owner, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, deal.ID, found.ID)

	_, err = repo.FindByID(context.Background(), uuid.New(), deal.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoListFilters(t *testing.T) {
	db := setupDealsTestDB(t)
	repo, err := NewRepo(db)
	require.NoError(t, err)

	owner := uuid.New()
	active := seedDeal(t, db, owner, enums.DealStatusNegotiating, false)
	seedDeal(t, db, owner, enums.DealStatusAccepted, false)
	seedDeal(t, db, owner, enums.DealStatusWon, false)

	status := enums.DealStatusNegotiating
	rows, err := repo.List(context.Background(), owner, Filter{Status: &status})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, active.ID, rows[0].ID)

	rows, err = repo.List(context.Background(), owner, Filter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, active.ID, rows[0].ID)

	rows, err = repo.List(context.Background(), owner, Filter{DealerID: &active.DealerID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestRepoCountActiveExcludesFallbackAndTerminal(t *testing.T) {
	db := setupDealsTestDB(t)
	repo, err := NewRepo(db)
	require.NoError(t, err)

	owner := uuid.New()
	seedDeal(t, db, owner, enums.DealStatusQuoteRequested, false)
	seedDeal(t, db, owner, enums.DealStatusNegotiating, false)
	seedDeal(t, db, owner, enums.DealStatusAccepted, false)
	seedDeal(t, db, owner, enums.DealStatusWon, false)
	seedDeal(t, db, owner, enums.DealStatusNegotiating, true)

	// Accepted is terminal: an accepted deal must not eat into the plan cap.
	n, err := repo.CountActive(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRepoSaveCompletionWritesBothRows(t *testing.T) {
	db := setupDealsTestDB(t)
	repo, err := NewRepo(db)
	require.NoError(t, err)

	owner := uuid.New()
	deal := seedDeal(t, db, owner, enums.DealStatusNegotiating, false)
	deal.Status = enums.DealStatusWon

	contribution := newContributionRow()
	require.NoError(t, repo.SaveCompletion(context.Background(), deal, contribution))

	reloaded, err := repo.FindByID(context.Background(), owner, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.DealStatusWon, reloaded.Status)

	var rows int64
	require.NoError(t, db.Model(&models.MarketData{}).Where("id = ?", contribution.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestRepoSaveCompletionRollsBackDealOnContributionFailure(t *testing.T) {
	db := setupDealsTestDB(t)
	repo, err := NewRepo(db)
	require.NoError(t, err)

	owner := uuid.New()
	first := seedDeal(t, db, owner, enums.DealStatusNegotiating, false)
	first.Status = enums.DealStatusWon
	taken := newContributionRow()
	require.NoError(t, repo.SaveCompletion(context.Background(), first, taken))

	second := seedDeal(t, db, owner, enums.DealStatusNegotiating, false)
	second.Status = enums.DealStatusWon
	dup := newContributionRow()
	dup.ID = taken.ID
	require.Error(t, repo.SaveCompletion(context.Background(), second, dup))

	// The deal must not end up terminal with the shared record lost.
	reloaded, err := repo.FindByID(context.Background(), owner, second.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.DealStatusNegotiating, reloaded.Status)
}

func newContributionRow() *models.MarketData {
	return &models.MarketData{
		ID:           uuid.New(),
		VehicleYear:  2024,
		VehicleMake:  "Honda",
		VehicleModel: "CR-V",
		MileageRange: enums.MileageRange0To10k,
		PurchaseType: enums.PurchaseTypeCash,
		AskingPrice:  decimal.RequireFromString("30000"),
		FinalPrice:   decimal.RequireFromString("28000"),
		DealOutcome:  enums.DealStatusWon,
	}
}

func TestRepoDeleteScopedToUser(t *testing.T) {
	db := setupDealsTestDB(t)
	repo, err := NewRepo(db)
	require.NoError(t, err)

	owner := uuid.New()
	deal := seedDeal(t, db, owner, enums.DealStatusNegotiating, false)

	err = repo.Delete(context.Background(), uuid.New(), deal.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(context.Background(), owner, deal.ID))
	_, err = repo.FindByID(context.Background(), owner, deal.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
