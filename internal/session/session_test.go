package session_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medikart/storefront/internal/domain"
	"github.com/medikart/storefront/internal/kv"
	"github.com/medikart/storefront/internal/session"
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	manager := session.NewManager(ctx, store, zap.NewNop())

	_, ok := manager.Token(ctx)
	assert.False(t, ok)
	_, ok = manager.Customer()
	assert.False(t, ok)

	customer := domain.Customer{
		ID:      int64(gofakeit.IntRange(1, 10_000)),
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Phone:   gofakeit.Phone(),
		Address: gofakeit.Address().Address,
	}

	require.NoError(t, manager.Start(ctx, "token-1", customer))

	token, ok := manager.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "token-1", token)

	got, ok := manager.Customer()
	require.True(t, ok)
	assert.Equal(t, customer, got)

	// a new manager over the same store stays logged in
	rehydrated := session.NewManager(ctx, store, zap.NewNop())

	token, ok = rehydrated.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "token-1", token)

	got, ok = rehydrated.Customer()
	require.True(t, ok)
	assert.Equal(t, customer, got)

	require.NoError(t, manager.End(ctx))

	_, ok = manager.Token(ctx)
	assert.False(t, ok)

	// the mirror is cleared too
	cleared := session.NewManager(ctx, store, zap.NewNop())
	_, ok = cleared.Token(ctx)
	assert.False(t, ok)
}

func TestUpdateCustomerKeepsToken(t *testing.T) {
	ctx := context.Background()
	manager := session.NewManager(ctx, kv.NewMemory(), zap.NewNop())

	require.NoError(t, manager.Start(ctx, "tok", domain.Customer{ID: 1, Name: "Budi"}))
	require.NoError(t, manager.UpdateCustomer(ctx, domain.Customer{ID: 1, Name: "Budi Santoso"}))

	token, ok := manager.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok", token)

	customer, _ := manager.Customer()
	assert.Equal(t, "Budi Santoso", customer.Name)
}

func TestCorruptProfileIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	require.NoError(t, store.Set(ctx, "userToken", "tok"))
	require.NoError(t, store.Set(ctx, "userInfo", "{broken"))

	manager := session.NewManager(ctx, store, zap.NewNop())

	// token survives even when the profile does not parse
	token, ok := manager.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok", token)

	_, ok = manager.Customer()
	assert.False(t, ok)
}
