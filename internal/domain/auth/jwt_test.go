package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "autoparts/internal/core/context"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, expiresAt, err := svc.GenerateAccessToken(appctx.StaffUser{
		UserID: "u-1",
		Name:   "Alisher",
		Roles:  []string{"cashier"},
	})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UserID)
	assert.True(t, user.HasPermission(PermSalesWrite))
	assert.True(t, user.HasPermission(PermPaymentsWrite))
	assert.False(t, user.HasPermission(PermStockWrite))
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken(appctx.StaffUser{UserID: "u-1"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	cfg := DefaultJWTConfig("s")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken(appctx.StaffUser{UserID: "u-1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpandPermissions(t *testing.T) {
	perms := ExpandPermissions([]string{"viewer", "viewer"}, []string{PermAuditRead})
	assert.Equal(t, []string{PermAuditRead, PermCatalogRead, PermReportsRead, PermSalesRead, PermStockRead}, perms)
	assert.True(t, KnownRole("manager"))
	assert.False(t, KnownRole("root"))
}
