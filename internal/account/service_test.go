package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/finbuddy/backend/internal/account"
	"github.com/finbuddy/backend/internal/storage/memory"
	"github.com/finbuddy/backend/internal/validation"
)

func newService() (*account.Service, *memory.Store) {
	store := memory.New()
	return account.NewService(store, validation.New()).WithHashCost(bcrypt.MinCost), store
}

func TestRegisterStoresHashedUser(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	u, err := svc.Register(ctx, account.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Tr0ub4dor&3",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "Tr0ub4dor&3", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Tr0ub4dor&3")))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   account.RegisterRequest
		field string
		msg   string
	}{
		{
			name:  "missing username",
			req:   account.RegisterRequest{Email: "a@example.com", Password: "Tr0ub4dor&3"},
			field: "username",
			msg:   "This field is required.",
		},
		{
			name:  "bad email",
			req:   account.RegisterRequest{Username: "bob", Email: "not-an-email", Password: "Tr0ub4dor&3"},
			field: "email",
			msg:   "Enter a valid email address.",
		},
		{
			name:  "short password",
			req:   account.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "x9!"},
			field: "password",
			msg:   "This password is too short. It must contain at least 8 characters.",
		},
		{
			name:  "common password",
			req:   account.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "password123"},
			field: "password",
			msg:   "This password is too common.",
		},
		{
			name:  "numeric password",
			req:   account.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "90817263"},
			field: "password",
			msg:   "This password is entirely numeric.",
		},
		{
			name:  "password like username",
			req:   account.RegisterRequest{Username: "roberto", Email: "r@example.com", Password: "roberto2024"},
			field: "password",
			msg:   "The password is too similar to the username.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService()
			_, err := svc.Register(context.Background(), tt.req)

			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs[tt.field], tt.msg)

			users, err := store.ListUsers(context.Background())
			require.NoError(t, err)
			assert.Empty(t, users)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	req := account.RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "Tr0ub4dor&3"}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, []string{"A user with that username already exists."}, errs["username"])

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, account.RegisterRequest{
		Username: "dave", Email: "dave@example.com", Password: "Tr0ub4dor&3",
	})
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "dave", "Tr0ub4dor&3")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.Authenticate(ctx, "dave", "wrong-password")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "Tr0ub4dor&3")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)
}

func TestIsActiveAndDelete(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	u, err := svc.Register(ctx, account.RegisterRequest{
		Username: "erin", Email: "erin@example.com", Password: "Tr0ub4dor&3",
	})
	require.NoError(t, err)

	active, err := svc.IsActive(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, svc.Delete(ctx, u.ID))

	active, err = svc.IsActive(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, active)

	assert.ErrorIs(t, svc.Delete(ctx, u.ID), account.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "not-a-uuid"), account.ErrNotFound)
}
