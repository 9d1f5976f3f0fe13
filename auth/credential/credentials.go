package credential

import "time"

// Kind tags the variant held by Credentials.
type Kind int

const (
	// KindPassword holds a login key and a plaintext password.
	KindPassword Kind = iota + 1
	// KindToken holds the claims of a verified access token.
	KindToken
)

func (k Kind) String() string {
	switch k {
	case KindPassword:
		return "password"
	case KindToken:
		return "token"
	default:
		return "unknown"
	}
}

// PasswordCredentials are submitted by a user logging in.
type PasswordCredentials struct {
	Name     string
	Password string
}

// TokenCredentials are the identity claims of a token whose signature and
// expiry have already been checked.
type TokenCredentials struct {
	ID            string
	PasswordEpoch int64
}

// Credentials is a closed union of PasswordCredentials and TokenCredentials.
// Build it with FromPassword or FromToken; Kind selects the populated variant.
type Credentials struct {
	kind     Kind
	password PasswordCredentials
	token    TokenCredentials
}

// FromPassword wraps a login key and password.
func FromPassword(name, password string) Credentials {
	return Credentials{kind: KindPassword, password: PasswordCredentials{Name: name, Password: password}}
}

// FromToken wraps verified token claims.
func FromToken(id string, passwordEpoch time.Time) Credentials {
	return Credentials{kind: KindToken, token: TokenCredentials{ID: id, PasswordEpoch: passwordEpoch.Unix()}}
}

// Kind reports which variant c holds. The zero Credentials has no kind.
func (c Credentials) Kind() Kind { return c.kind }

// Password returns the password variant. ok is false for other kinds.
func (c Credentials) Password() (PasswordCredentials, bool) {
	return c.password, c.kind == KindPassword
}

// Token returns the token variant. ok is false for other kinds.
func (c Credentials) Token() (TokenCredentials, bool) {
	return c.token, c.kind == KindToken
}
