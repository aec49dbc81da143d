// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"stockbook/internal/core/id"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID   id.ID
	TenantID id.ID
	Email    string
	Role     string
	IsAdmin  bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context, or nil.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns the user ID from context or the nil ID.
func GetUserID(ctx context.Context) id.ID {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return id.Nil()
}

// GetTenantID returns the tenant ID from context or the nil ID.
// Every repository query is scoped by this value.
func GetTenantID(ctx context.Context) id.ID {
	if u := GetUser(ctx); u != nil {
		return u.TenantID
	}
	return id.Nil()
}

// HasRole checks if the user has a specific role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	return u != nil && u.Role == role
}
