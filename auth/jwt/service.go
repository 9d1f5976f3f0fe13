// Package jwt signs and parses HMAC-signed JWTs for a caller-defined claims type.
//
// Parse failures are classified into the token error family of the errors
// package: malformed, invalid signature and expired.
//
// Usage:
//
//	svc, err := jwt.NewService(&cfg, func() *Claims { return &Claims{} })
//	token, err := svc.Generate(claims)
//	claims, err := svc.Parse(token, time.Now())
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/kbukum/habit/errors"
)

// Service provides JWT token generation and parsing for claims type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	newEmpty func() T
}

// NewService creates a new JWT service. newEmpty returns a zero-value T for
// parsing. A missing secret fails here, never per request.
func NewService[T gojwt.Claims](cfg *Config, newEmpty func() T) (*Service[T], error) {
	c := *cfg
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Service[T]{cfg: c, newEmpty: newEmpty}, nil
}

// TTL returns the configured token lifetime.
func (s *Service[T]) TTL() time.Duration { return s.cfg.TTL }

// Issuer returns the configured issuer, possibly empty.
func (s *Service[T]) Issuer() string { return s.cfg.Issuer }

// Generate creates a signed JWT from the given claims.
func (s *Service[T]) Generate(claims T) (string, error) {
	token := gojwt.NewWithClaims(s.cfg.signingMethod(), claims)
	signed, err := token.SignedString(s.cfg.key())
	if err != nil {
		return "", apperrors.SigningFailure(fmt.Errorf("jwt: sign token: %w", err))
	}
	return signed, nil
}

// Parse verifies the signature and expiry of tokenString as of now and
// returns its claims. Errors are token-family AppErrors.
func (s *Service[T]) Parse(tokenString string, now time.Time) (T, error) {
	var zero T
	claims := s.newEmpty()
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions(now)...)
	if err != nil {
		return zero, classify(err)
	}
	if !token.Valid {
		return zero, apperrors.MalformedToken("token is not valid")
	}
	parsed, ok := token.Claims.(T)
	if !ok {
		return zero, apperrors.MalformedToken("unexpected claims type")
	}
	return parsed, nil
}

// classify maps golang-jwt errors onto the token error family.
func classify(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, gojwt.ErrTokenMalformed):
		return apperrors.MalformedToken("token is malformed").WithCause(err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid), errors.Is(err, gojwt.ErrTokenUnverifiable):
		return apperrors.InvalidSignature().WithCause(err)
	case errors.Is(err, gojwt.ErrTokenExpired):
		return apperrors.TokenExpired().WithCause(err)
	default:
		return apperrors.MalformedToken("token claims are invalid").WithCause(err)
	}
}

// keyFunc is the jwt.Keyfunc used during token parsing.
func (s *Service[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return s.cfg.key(), nil
}

func (s *Service[T]) parserOptions(now time.Time) []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(func() time.Time { return now }),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	return opts
}
