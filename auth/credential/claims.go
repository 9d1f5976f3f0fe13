package credential

import (
	gojwt "github.com/golang-jwt/jwt/v5"
)

// UserClaim is the "user" claim group of an access token.
type UserClaim struct {
	ID string `json:"id"`
	// LastPasswordUpdate is the password epoch in unix seconds.
	LastPasswordUpdate *int64 `json:"last_password_update"`
}

// Claims is the access token payload:
//
//	{"exp": 1700000600, "iat": 1700000000, "user": {"id": "1", "last_password_update": 1700000000}}
type Claims struct {
	User *UserClaim `json:"user,omitempty"`
	gojwt.RegisteredClaims
}

func newClaims() *Claims { return &Claims{} }

// credentials returns the token variant of c, or false when the user claim
// group is incomplete.
func (c *Claims) credentials() (TokenCredentials, bool) {
	if c.User == nil || c.User.ID == "" || c.User.LastPasswordUpdate == nil {
		return TokenCredentials{}, false
	}
	return TokenCredentials{ID: c.User.ID, PasswordEpoch: *c.User.LastPasswordUpdate}, true
}
