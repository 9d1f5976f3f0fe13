package auth

import (
	"context"

	"github.com/kbukum/habit/auth/authctx"
)

// Authenticator resolves a bearer token to a verified identity. A false
// result means the request stays anonymous; it is never an error.
//
// The credential service implements this; HTTP middleware depends on the
// interface only.
type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (authctx.Identity, bool)
}

// AuthenticatorFunc adapts an ordinary function to the Authenticator interface.
//
//	auth.AuthenticatorFunc(func(ctx context.Context, token string) (authctx.Identity, bool) {
//	    return authctx.Identity{ID: "1"}, token == "test"
//	})
type AuthenticatorFunc func(ctx context.Context, bearerToken string) (authctx.Identity, bool)

// Authenticate implements Authenticator.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, bearerToken string) (authctx.Identity, bool) {
	return f(ctx, bearerToken)
}
