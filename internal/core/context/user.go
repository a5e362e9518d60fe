// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"slices"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID         string
	Email          string
	Roles          []string
	BranchIDs      []string // Branches the user may operate on
	ActiveBranchID string
	IsSuperAdmin   bool
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

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetActiveBranchID returns the user's active branch or empty string.
func GetActiveBranchID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.ActiveBranchID
	}
	return ""
}

// HasBranchAccess checks if user may operate on the branch.
// Requests without a user (auth disabled) are not restricted.
func HasBranchAccess(ctx context.Context, branchID string) bool {
	u := GetUser(ctx)
	if u == nil || u.IsSuperAdmin {
		return true
	}
	return slices.Contains(u.BranchIDs, branchID)
}
