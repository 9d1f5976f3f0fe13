// Package password provides the salted, deterministic password hash used by
// the credential service.
//
// A Hasher maps (plaintext, salt) to a secret. The same inputs always yield
// the same secret, so verification recomputes the hash with the stored salt
// and compares. Salts come from a separate Salter.
//
// Usage:
//
//	salt, _ := password.NewBcryptSalter(12).Salt()
//	secret, err := hasher.Hash("g0t0m@rs", salt)
//	ok := password.Equal(secret, stored)
package password

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
)

// Hasher computes the secret for a plaintext password and salt.
type Hasher interface {
	Hash(plaintext, salt string) (string, error)
}

// HasherFunc adapts a function to the Hasher interface.
type HasherFunc func(plaintext, salt string) (string, error)

func (f HasherFunc) Hash(plaintext, salt string) (string, error) { return f(plaintext, salt) }

// ErrInvalidInput is returned for input the primitives refuse to hash.
var ErrInvalidInput = errors.New("password: input is not valid UTF-8")

// Equal compares two secrets in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func checkInput(plaintext, salt string) error {
	if !utf8.ValidString(plaintext) || !utf8.ValidString(salt) {
		return ErrInvalidInput
	}
	return nil
}

// --- SHA-256 ---

// SHA256Hasher hashes plaintext+salt with SHA-256 and hex-encodes the digest.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a SHA-256 hasher.
func NewSHA256Hasher() *SHA256Hasher { return &SHA256Hasher{} }

func (h *SHA256Hasher) Hash(plaintext, salt string) (string, error) {
	if err := checkInput(plaintext, salt); err != nil {
		return "", err
	}
	return digest(sha256.New(), plaintext, salt), nil
}

// --- HMAC-SHA-256 ---

// HMACHasher hashes plaintext+salt with HMAC-SHA-256 under a server-side key.
type HMACHasher struct {
	key []byte
}

// NewHMACHasher creates a keyed hasher. The key must not be empty.
func NewHMACHasher(key string) (*HMACHasher, error) {
	if key == "" {
		return nil, errors.New("password: hmac key is required")
	}
	return &HMACHasher{key: []byte(key)}, nil
}

func (h *HMACHasher) Hash(plaintext, salt string) (string, error) {
	if err := checkInput(plaintext, salt); err != nil {
		return "", err
	}
	return digest(hmac.New(sha256.New, h.key), plaintext, salt), nil
}

func digest(h hash.Hash, plaintext, salt string) string {
	h.Write([]byte(plaintext))
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil))
}

// --- Argon2id ---

// Argon2Hasher derives the secret with argon2id, using the record salt as the
// KDF salt. Parameters are fixed per deployment; changing them invalidates
// every stored secret.
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
}

// Argon2Option configures the argon2id hasher.
type Argon2Option func(*Argon2Hasher)

// WithArgon2Time sets the number of iterations (default: 1).
func WithArgon2Time(t uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.time = t }
}

// WithArgon2Memory sets the memory usage in KiB (default: 64*1024 = 64MB).
func WithArgon2Memory(m uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.memory = m }
}

// WithArgon2Threads sets the parallelism (default: 4).
func WithArgon2Threads(t uint8) Argon2Option {
	return func(h *Argon2Hasher) { h.threads = t }
}

// NewArgon2Hasher creates an argon2id hasher with OWASP defaults:
// time=1, memory=64MB, threads=4.
func NewArgon2Hasher(opts ...Argon2Option) *Argon2Hasher {
	h := &Argon2Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Argon2Hasher) Hash(plaintext, salt string) (string, error) {
	if err := checkInput(plaintext, salt); err != nil {
		return "", err
	}
	if h.time == 0 || h.threads == 0 {
		return "", fmt.Errorf("password: argon2id requires time and threads > 0 (got t=%d p=%d)", h.time, h.threads)
	}
	key := argon2.IDKey([]byte(plaintext), []byte(salt), h.time, h.memory, h.threads, h.keyLen)
	return base64.RawStdEncoding.EncodeToString(key), nil
}
