package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

type userRepo interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	CompleteOnboarding(ctx context.Context, user *models.User) error
}

// Service manages accounts and the onboarding flow.
type Service struct {
	repo userRepo
}

func NewService(repo userRepo) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users: repo is required")
	}
	return &Service{repo: repo}, nil
}

// Get loads one account by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

// GetModel loads the raw account row for internal callers that need the full
// model, like plan-limit checks.
func (s *Service) GetModel(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.loadByID(ctx, id)
}

// EnsureAccount finds or creates the account for an authenticated identity.
// Name and avatar refresh from the provider on every login.
func (s *Service) EnsureAccount(ctx context.Context, email, fullName string, avatarURL *string) (*models.User, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		changed := false
		if fullName != "" && user.FullName != fullName {
			user.FullName = fullName
			changed = true
		}
		if avatarURL != nil {
			user.AvatarURL = avatarURL
			changed = true
		}
		if changed {
			if err := s.repo.Update(ctx, user); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to refresh profile")
			}
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to look up account")
	}

	user = &models.User{
		Email:            email,
		FullName:         fullName,
		AvatarURL:        avatarURL,
		SubscriptionTier: enums.SubscriptionTierFree,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create account")
	}
	return user, nil
}

// UpdateProfile applies profile edits.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*UserDTO, error) {
	user, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		if *in.FullName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name must not be empty")
		}
		user.FullName = *in.FullName
	}
	if in.AvatarURL != nil {
		user.AvatarURL = in.AvatarURL
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update profile")
	}
	return FromModel(user), nil
}

// UpdateTier switches the account's subscription tier. Downgrades keep
// existing deals; the limit only gates new creations.
func (s *Service) UpdateTier(ctx context.Context, id uuid.UUID, tier enums.SubscriptionTier) (*UserDTO, error) {
	if !tier.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown subscription tier")
	}

	user, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.SubscriptionTier = tier

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update tier")
	}
	return FromModel(user), nil
}

// CompleteOnboarding provisions the fallback dealer/deal pair. Calling it a
// second time is a no-op returning the current state.
func (s *Service) CompleteOnboarding(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.OnboardingCompleted {
		return FromModel(user), nil
	}

	if err := s.repo.CompleteOnboarding(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to complete onboarding")
	}
	return FromModel(user), nil
}

func (s *Service) loadByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load user")
	}
	return user, nil
}
