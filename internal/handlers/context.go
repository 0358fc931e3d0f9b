package handlers

import (
	"context"

	"domisafe/internal/models"
)

type contextKey string

const claimsKey contextKey = "claims"

// WithClaims stores verified token claims on the request context.
func WithClaims(ctx context.Context, claims models.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (models.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(models.Claims)
	return claims, ok
}
