// Package authctx carries the verified identity of a request through
// context.Context.
//
// The slot is optional: a request without an identity is anonymous. The
// authentication middleware fills it, handlers read it:
//
//	ctx = authctx.With(ctx, identity)
//
//	id, ok := authctx.From(ctx)
//	id, err := authctx.Require(ctx) // ErrAnonymous if absent
package authctx

import (
	"context"
	"errors"
	"time"
)

// Identity is the subject of a verified access token.
type Identity struct {
	// ID is the credential record identifier.
	ID string `json:"id"`
	// Name is the login key of the record.
	Name string `json:"name"`
	// Email is the contact address of the record, possibly empty.
	Email string `json:"email,omitempty"`
	// PasswordEpoch is the record's last password change at verification time.
	PasswordEpoch time.Time `json:"-"`
}

type contextKey struct{}

var identityKey = contextKey{}

// ErrAnonymous is returned when no identity is attached to the context.
var ErrAnonymous = errors.New("authctx: no identity in context")

// With returns a copy of ctx carrying id.
func With(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// From returns the identity attached to ctx, or false for anonymous requests.
func From(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Require returns the identity attached to ctx or ErrAnonymous.
func Require(ctx context.Context) (Identity, error) {
	id, ok := From(ctx)
	if !ok {
		return Identity{}, ErrAnonymous
	}
	return id, nil
}
