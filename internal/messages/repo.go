package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/pagination"
)

// Repo persists messages scoped to their owning user.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, fmt.Errorf("messages: db is required")
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *Repo) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// List returns the user's messages, newest first, optionally narrowed by
// filter.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter Filter) ([]models.Message, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if filter.DealID != nil {
		q = q.Where("deal_id = ?", *filter.DealID)
	}
	if filter.DealerID != nil {
		q = q.Where("dealer_id = ?", *filter.DealerID)
	}
	if filter.IsRead != nil {
		q = q.Where("is_read = ?", *filter.IsRead)
	}

	var rows []models.Message
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPage returns one keyset page of the user's messages, newest first,
// fetching one extra row so the caller can tell whether a next page exists.
func (r *Repo) ListPage(ctx context.Context, userID uuid.UUID, filter Filter, cursor *pagination.Cursor, limit int) ([]models.Message, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if filter.DealID != nil {
		q = q.Where("deal_id = ?", *filter.DealID)
	}
	if filter.DealerID != nil {
		q = q.Where("dealer_id = ?", *filter.DealerID)
	}
	if filter.IsRead != nil {
		q = q.Where("is_read = ?", *filter.IsRead)
	}
	if cursor != nil {
		q = q.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	q = q.Limit(pagination.LimitWithBuffer(limit))

	var rows []models.Message
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LastActivity returns the most recent message timestamp per deal, counting
// both directions and read messages alike.
func (r *Repo) LastActivity(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]time.Time, error) {
	var rows []struct {
		DealID uuid.UUID `gorm:"column:deal_id"`
		LastAt time.Time `gorm:"column:last_at"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("deal_id, MAX(created_at) AS last_at").
		Where("user_id = ?", userID).
		Group("deal_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[uuid.UUID]time.Time, len(rows))
	for _, row := range rows {
		latest[row.DealID] = row.LastAt
	}
	return latest, nil
}

// MarkRead flags a single message as read.
func (r *Repo) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkThreadRead flags every unread inbound message on a deal as read.
func (r *Repo) MarkThreadRead(ctx context.Context, userID, dealID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("user_id = ? AND deal_id = ? AND is_read = ?", userID, dealID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// Reassign moves a message onto another deal/dealer pair. Used when attaching
// an uncategorized message to a real negotiation.
func (r *Repo) Reassign(ctx context.Context, userID, id, dealID, dealerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"deal_id": dealID, "dealer_id": dealerID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
