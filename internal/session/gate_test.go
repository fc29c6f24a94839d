package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-party-rentals.git/internal/kv"
)

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	g := NewGate(kv.NewMemory(), "12345")

	_, ok, err := g.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.Login(ctx, "admin", "12345")
	require.NoError(t, err)
	assert.True(t, ok)

	u, ok, err := g.Current(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, User{Username: "admin", Role: RoleAdmin}, u)

	require.NoError(t, g.Logout(ctx))
	_, ok, err = g.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	ctx := context.Background()
	g := NewGate(kv.NewMemory(), "12345")
	ok, err := g.Login(ctx, "customer", "12345")
	require.NoError(t, err)
	require.True(t, ok)

	for _, tc := range [][2]string{{"customer", "wrong"}, {"root", "12345"}, {"", ""}} {
		ok, err := g.Login(ctx, tc[0], tc[1])
		require.NoError(t, err)
		assert.False(t, ok)
	}
	u, ok, _ := g.Current(ctx)
	assert.True(t, ok)
	assert.Equal(t, RoleCustomer, u.Role)
}

func TestCorruptSessionReadsAsSignedOut(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, kv.KeySessionFlag, []byte("yes")))

	_, ok, err := NewGate(store, "12345").Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionsAreScopedPerClient(t *testing.T) {
	ctx := context.Background()
	base := kv.NewMemory()
	a := NewGate(kv.ForClient(base, "a"), "12345")
	b := NewGate(kv.ForClient(base, "b"), "12345")

	ok, err := a.Login(ctx, "admin", "12345")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = b.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
