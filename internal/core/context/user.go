// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"comercia/internal/core/id"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID     id.ID
	BusinessID id.ID
	Email      string
	Role       string
	IsAdmin    bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or the nil ID.
func GetUserID(ctx context.Context) id.ID {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return id.Nil()
}

// GetBusinessID returns the caller's business from context or the nil ID.
func GetBusinessID(ctx context.Context) id.ID {
	if u := GetUser(ctx); u != nil {
		return u.BusinessID
	}
	return id.Nil()
}

// HasBusinessAccess checks if the caller may touch rows of a business.
func HasBusinessAccess(ctx context.Context, businessID id.ID) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	if u.IsAdmin {
		return true
	}
	return u.BusinessID == businessID
}
