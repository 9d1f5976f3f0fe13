// Package auth holds the authentication configuration and the Authenticator
// contract that HTTP middleware depends on.
//
// Subpackages:
//
//   - auth/password: salted deterministic password hashing and salt generation
//   - auth/jwt: HMAC-signed access tokens
//   - auth/credential: the credential and token lifecycle (log in, register,
//     change password, verify)
//   - auth/authctx: the per-request identity slot
//
// # Configuration
//
//	auth:
//	  jwt:
//	    secret: "..."      # or HABIT_AUTH_JWT_SECRET
//	    ttl: 10m
//	  password:
//	    algorithm: sha256
//	    min_length: 8
package auth
