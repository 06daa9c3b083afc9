package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/hagglehub/hagglehub-backend/api/responses"
	"github.com/hagglehub/hagglehub-backend/internal/auth"
	pkgAuth "github.com/hagglehub/hagglehub-backend/pkg/auth"
	"github.com/hagglehub/hagglehub-backend/pkg/config"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
)

const sessionCookieName = "hh_session"

type loginService interface {
	BeginLogin(ctx context.Context) (string, error)
	CompleteLogin(ctx context.Context, state, code string) (*auth.LoginResult, error)
	Logout(ctx context.Context, accessID string) error
}

// AuthGoogleLogin starts the consent flow and hands the client the redirect
// URL instead of issuing the redirect itself, so SPA and native clients can
// open it however they like.
func AuthGoogleLogin(svc loginService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		url, err := svc.BeginLogin(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"auth_url": url})
	}
}

// AuthGoogleCallback finishes the consent flow: it burns the state nonce,
// exchanges the code, and returns the bearer token alongside the account. The
// token is also set as an httponly cookie for browser clients.
func AuthGoogleCallback(svc loginService, cfg config.AppConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		query := r.URL.Query()
		state := strings.TrimSpace(query.Get("state"))
		code := strings.TrimSpace(query.Get("code"))

		if reason := strings.TrimSpace(query.Get("error")); reason != "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "consent denied: "+reason))
			return
		}

		result, err := svc.CompleteLogin(r.Context(), state, code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    result.AccessToken,
			Path:     "/",
			Expires:  result.ExpiresAt,
			HttpOnly: true,
			Secure:   cfg.IsProd(),
			SameSite: http.SameSiteLaxMode,
		})

		responses.WriteSuccess(w, result)
	}
}

type sessionRevoker interface {
	Revoke(ctx context.Context, accessID string) error
}

// AuthLogout revokes the server-side session tied to the presented access
// token. Expired tokens are still accepted; logout has to work after expiry.
func AuthLogout(sessions sessionRevoker, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		token := bearerOrCookieToken(r)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		claims, err := pkgAuth.ParseAccessTokenAllowExpired(cfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}
		if claims.ID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		if err := sessions.Revoke(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session"))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func bearerOrCookieToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw != "" {
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			return strings.TrimSpace(raw[7:])
		}
		return raw
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
