package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasBranchAccess(t *testing.T) {
	ctx := context.Background()
	assert.True(t, HasBranchAccess(ctx, "b1"), "no user means auth is disabled")

	ctx = WithUser(ctx, &UserContext{UserID: "u1", BranchIDs: []string{"b1"}, ActiveBranchID: "b1"})
	assert.True(t, HasBranchAccess(ctx, "b1"))
	assert.False(t, HasBranchAccess(ctx, "b2"))
	assert.Equal(t, "b1", GetActiveBranchID(ctx))
	assert.Equal(t, "u1", GetUserID(ctx))

	admin := WithUser(context.Background(), &UserContext{UserID: "root", IsSuperAdmin: true})
	assert.True(t, HasBranchAccess(admin, "anything"))
}
