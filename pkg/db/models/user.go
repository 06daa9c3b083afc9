package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

// User represents the account holder. Created on first authentication via the
// identity provider; never hard-deleted outside full account erasure.
type User struct {
	ID                  uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email               string                 `gorm:"type:text;not null;uniqueIndex"`
	FullName            string                 `gorm:"column:full_name;not null"`
	AvatarURL           *string                `gorm:"column:avatar_url"`
	SubscriptionTier    enums.SubscriptionTier `gorm:"type:subscription_tier;not null;default:'free'"`
	OnboardingCompleted bool                   `gorm:"column:onboarding_completed;not null;default:false"`
	FallbackDealID      *uuid.UUID             `gorm:"type:uuid;column:fallback_deal_id"`
	CreatedAt           time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
