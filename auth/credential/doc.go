// Package credential implements the credential and token lifecycle: log in,
// registration, password change and access token verification.
//
// A Record stores a salted hash of the password and a password epoch, the
// time of the last password change. Access tokens carry the epoch they were
// issued under; once the password changes, the record's epoch moves past it
// and Verify rejects the token as stale even before it expires.
//
// Persistence goes through the Store port. MemoryStore ships here; the
// database and redis packages provide SQLite and Redis implementations.
//
//	svc, err := credential.NewService(cfg.Auth, store)
//	token, err := svc.Register(ctx, credential.RegisterInput{Name: "ElonMusk", Email: "elon@example.com", Password: "g0t0m@rs"})
//	identity, ok := svc.Authenticate(ctx, token)
package credential
