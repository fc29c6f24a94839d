// Package session is the storefront's login gate. It is an allow-list
// equality check, not authentication.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-party-rentals.git/internal/kv"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

type User struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

var allowList = map[string]Role{
	"admin":    RoleAdmin,
	"customer": RoleCustomer,
}

// Gate reads and writes the session records in one client's scope.
type Gate struct {
	store    kv.Store
	password string
}

func NewGate(store kv.Store, sharedPassword string) *Gate {
	return &Gate{store: store, password: sharedPassword}
}

// Login reports whether the credentials match the allow-list. A failed
// attempt leaves any existing session untouched.
func (g *Gate) Login(ctx context.Context, username, password string) (bool, error) {
	role, ok := allowList[username]
	if !ok || password != g.password {
		return false, nil
	}
	if err := kv.PutJSON(ctx, g.store, kv.KeyCurrentUser, User{Username: username, Role: role}); err != nil {
		return false, fmt.Errorf("save session: %w", err)
	}
	if err := kv.PutJSON(ctx, g.store, kv.KeySessionFlag, true); err != nil {
		return false, fmt.Errorf("save session: %w", err)
	}
	return true, nil
}

func (g *Gate) Logout(ctx context.Context) error {
	if err := g.store.Delete(ctx, kv.KeySessionFlag); err != nil {
		return err
	}
	return g.store.Delete(ctx, kv.KeyCurrentUser)
}

// Current returns the signed-in user. ok is false when there is no session
// or the stored records are unreadable.
func (g *Gate) Current(ctx context.Context) (u User, ok bool, err error) {
	var flag bool
	if _, err := kv.GetJSON(ctx, g.store, kv.KeySessionFlag, &flag); err != nil {
		return User{}, false, ignoreCorrupt(err)
	}
	if !flag {
		return User{}, false, nil
	}
	found, err := kv.GetJSON(ctx, g.store, kv.KeyCurrentUser, &u)
	if err != nil || !found {
		return User{}, false, ignoreCorrupt(err)
	}
	return u, true, nil
}

func ignoreCorrupt(err error) error {
	if errors.Is(err, kv.ErrCorruptSnapshot) {
		return nil
	}
	return err
}
