package middleware

import "context"

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxEmail  contextKey = "email"
	ctxTier   contextKey = "tier"
)

// UserIDFromContext returns the authenticated user id, or "" when absent.
func UserIDFromContext(ctx context.Context) string {
	if value, ok := ctx.Value(ctxUserID).(string); ok {
		return value
	}
	return ""
}

// EmailFromContext returns the authenticated user's email, or "" when absent.
func EmailFromContext(ctx context.Context) string {
	if value, ok := ctx.Value(ctxEmail).(string); ok {
		return value
	}
	return ""
}

// TierFromContext returns the authenticated user's subscription tier, or ""
// when absent.
func TierFromContext(ctx context.Context) string {
	if value, ok := ctx.Value(ctxTier).(string); ok {
		return value
	}
	return ""
}
