package credential

import (
	"time"

	"github.com/kbukum/habit/auth/authctx"
)

// Record is a stored credential: an identity plus its salted password hash.
type Record struct {
	// ID is assigned by the store on Save and never changes.
	ID string
	// Name is the unique login key.
	Name  string
	Email string
	// Salt is regenerated on every password change.
	Salt string
	// Secret is hash(password + Salt). It never leaves the service.
	Secret string
	// LastPasswordChange is the password epoch, held at second precision.
	// It only moves forward.
	LastPasswordChange time.Time
}

// Clone returns a copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// Epoch returns the password epoch in unix seconds, the form carried in tokens.
func (r *Record) Epoch() int64 {
	return r.LastPasswordChange.Unix()
}

// Identity returns the public identity of r.
func (r *Record) Identity() authctx.Identity {
	return authctx.Identity{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		PasswordEpoch: r.LastPasswordChange,
	}
}

// nextEpoch returns the epoch for a password change at now. It is strictly
// after prev so tokens carrying prev become stale even within the same second.
func nextEpoch(prev, now time.Time) time.Time {
	next := now.Truncate(time.Second)
	if floor := prev.Truncate(time.Second).Add(time.Second); next.Before(floor) {
		next = floor
	}
	return next
}
