// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"slices"
)

// StaffUser is the authenticated back-office user behind a request.
type StaffUser struct {
	UserID      string
	Name        string
	Roles       []string
	Permissions []string
	IsAdmin     bool
}

// HasPermission reports whether the user may perform the named action.
// Admins hold every permission.
func (u *StaffUser) HasPermission(permission string) bool {
	if u.IsAdmin {
		return true
	}
	return slices.Contains(u.Permissions, permission)
}

type userContextKey struct{}

// WithUser adds StaffUser to context.
func WithUser(ctx context.Context, user *StaffUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns StaffUser from context.
func GetUser(ctx context.Context) *StaffUser {
	if v, ok := ctx.Value(userContextKey{}).(*StaffUser); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}
