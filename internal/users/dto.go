package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

// UserDTO exposes the account holder in API responses.
type UserDTO struct {
	ID                  uuid.UUID              `json:"id"`
	Email               string                 `json:"email"`
	FullName            string                 `json:"full_name"`
	AvatarURL           *string                `json:"avatar_url,omitempty"`
	SubscriptionTier    enums.SubscriptionTier `json:"subscription_tier"`
	OnboardingCompleted bool                   `json:"onboarding_completed"`
	FallbackDealID      *uuid.UUID             `json:"fallback_deal_id,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:                  m.ID,
		Email:               m.Email,
		FullName:            m.FullName,
		AvatarURL:           m.AvatarURL,
		SubscriptionTier:    m.SubscriptionTier,
		OnboardingCompleted: m.OnboardingCompleted,
		FallbackDealID:      m.FallbackDealID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// UpdateProfileInput captures mutable profile fields. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	FullName  *string
	AvatarURL *string
}
