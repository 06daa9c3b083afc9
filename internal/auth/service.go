package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/hagglehub/hagglehub-backend/internal/users"
	pkgauth "github.com/hagglehub/hagglehub-backend/pkg/auth"
	"github.com/hagglehub/hagglehub-backend/pkg/config"
	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

// stateTTL is how long a login attempt may sit between redirect and callback.
const stateTTL = 10 * time.Minute

type stateStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	OAuthStateKey(state string) string
}

type sessionManager interface {
	Create(ctx context.Context, accessID, userID string) error
	Revoke(ctx context.Context, accessID string) error
}

type accountService interface {
	EnsureAccount(ctx context.Context, email, fullName string, avatarURL *string) (*models.User, error)
}

// LoginResult is the completed-login payload: the bearer token plus the
// account it authenticates.
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        *users.UserDTO `json:"user"`
}

// Service runs the OAuth login flow: consent redirect, state-checked
// callback, session minting, and logout.
type Service struct {
	provider IdentityProvider
	states   stateStore
	sessions sessionManager
	accounts accountService
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

func NewService(provider IdentityProvider, states stateStore, sessions sessionManager, accounts accountService, jwtCfg config.JWTConfig) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("auth: identity provider is required")
	}
	if states == nil {
		return nil, fmt.Errorf("auth: state store is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("auth: session manager is required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("auth: account service is required")
	}
	return &Service{
		provider: provider,
		states:   states,
		sessions: sessions,
		accounts: accounts,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}, nil
}

// BeginLogin stores a one-time state nonce and returns the consent URL.
func (s *Service) BeginLogin(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.states.Set(ctx, s.states.OAuthStateKey(state), "pending", stateTTL); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to store login state")
	}
	return s.provider.AuthCodeURL(state), nil
}

// CompleteLogin validates the callback state, exchanges the code, provisions
// the account, and mints a session-backed access token.
func (s *Service) CompleteLogin(ctx context.Context, state, code string) (*LoginResult, error) {
	if state == "" || code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "state and code are required")
	}

	key := s.states.OAuthStateKey(state)
	if _, err := s.states.Get(ctx, key); err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown or expired login state")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to check login state")
	}
	// One shot: the state is burned whether or not the exchange succeeds.
	if err := s.states.Del(ctx, key); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to burn login state")
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.accounts.EnsureAccount(ctx, identity.Email, identity.FullName, identity.AvatarURL)
	if err != nil {
		return nil, err
	}

	now := s.now()
	jti := uuid.NewString()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Tier:   user.SubscriptionTier,
		JTI:    jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint access token")
	}

	if err := s.sessions.Create(ctx, jti, user.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create session")
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
		User:        users.FromModel(user),
	}, nil
}

// Logout revokes the server-side session for the presented token.
func (s *Service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to revoke session")
	}
	return nil
}
