package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/hagglehub/hagglehub-backend/pkg/config"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Identity is the provider-confirmed profile of a signing-in user.
type Identity struct {
	Email     string
	FullName  string
	AvatarURL *string
}

// IdentityProvider abstracts the OAuth code flow so the service can be tested
// without talking to Google.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// GoogleProvider implements the Google OAuth2 code flow.
type GoogleProvider struct {
	oauth *oauth2.Config
}

func NewGoogleProvider(cfg config.GoogleOAuthConfig) (*GoogleProvider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("google oauth client credentials are required")
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("google oauth redirect url is required")
	}
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}, nil
}

// AuthCodeURL builds the Google consent-screen URL carrying the state nonce.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the user's profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "authorization code exchange failed")
	}

	resp, err := p.oauth.Client(ctx, token).Get(userInfoURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch profile")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("profile endpoint returned %d", resp.StatusCode))
	}

	var payload struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to read profile")
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to decode profile")
	}
	if payload.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "profile did not include an email")
	}

	identity := &Identity{Email: payload.Email, FullName: payload.Name}
	if payload.Picture != "" {
		identity.AvatarURL = &payload.Picture
	}
	return identity, nil
}
