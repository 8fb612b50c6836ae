package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/karobar-books/karobar/internal/shared"
)

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("ledger-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := NewService("owner", string(hash))
	ctx := context.Background()

	role, err := svc.Authenticate(ctx, "owner", "ledger-pass")
	require.NoError(t, err)
	require.Equal(t, RoleOwner, role)

	_, err = svc.Authenticate(ctx, "owner", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "admin", "ledger-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}
