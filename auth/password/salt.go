package password

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
)

// bcryptEncoding is the base64 alphabet bcrypt uses for salts.
var bcryptEncoding = base64.NewEncoding("./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789").
	WithPadding(base64.NoPadding)

const saltBytes = 16

// Salter produces a fresh random salt for every call.
type Salter interface {
	Salt() (string, error)
}

// SalterFunc adapts a function to the Salter interface.
type SalterFunc func() (string, error)

func (f SalterFunc) Salt() (string, error) { return f() }

// BcryptSalter generates salts in bcrypt's format:
// "$2b$" + two-digit cost + "$" + 22 characters of bcrypt base64.
type BcryptSalter struct {
	cost int
	rand io.Reader
}

// NewBcryptSalter creates a salter. Costs outside bcrypt's range fall back to
// bcrypt.DefaultCost.
func NewBcryptSalter(cost int) *BcryptSalter {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptSalter{cost: cost, rand: rand.Reader}
}

func (s *BcryptSalter) Salt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := io.ReadFull(s.rand, b); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}
	return fmt.Sprintf("$2b$%02d$%s", s.cost, bcryptEncoding.EncodeToString(b)), nil
}
