package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/habit/auth/credential"
	apperrors "github.com/kbukum/habit/errors"
)

// Hash fields of a user record.
const (
	fieldName      = "name"
	fieldEmail     = "email"
	fieldSalt      = "salt"
	fieldSecret    = "secret"
	fieldPassEpoch = "last_password_update"
)

// saveScript reserves the login name, allocates the next id and writes the
// user hash in one step. It returns 0 when the name is taken.
//
// KEYS: login index, id sequence. ARGV: user key prefix, name, email, salt,
// secret, epoch.
var saveScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
local id = redis.call('INCR', KEYS[2])
redis.call('HSET', ARGV[1] .. id,
	'name', ARGV[2], 'email', ARGV[3], 'salt', ARGV[4],
	'secret', ARGV[5], 'last_password_update', ARGV[6])
redis.call('SET', KEYS[1], id)
return id
`)

// updateScript replaces the password fields of an existing user hash.
// It returns 0 when the user does not exist.
var updateScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'salt', ARGV[1], 'secret', ARGV[2], 'last_password_update', ARGV[3])
return 1
`)

// CredentialStore is a credential.Store on Redis. Each record is a hash at
// <prefix>:users:<id>; <prefix>:login:<name> maps a login name to its id and
// <prefix>:users:seq allocates ids.
type CredentialStore struct {
	rdb    goredis.UniversalClient
	prefix string
}

var _ credential.Store = (*CredentialStore)(nil)

// NewCredentialStore creates a store on client using its configured key prefix.
func NewCredentialStore(client *Client) *CredentialStore {
	return &CredentialStore{rdb: client.Unwrap(), prefix: client.cfg.KeyPrefix}
}

func (s *CredentialStore) userKeyPrefix() string { return s.prefix + ":users:" }
func (s *CredentialStore) userKey(id string) string { return s.userKeyPrefix() + id }
func (s *CredentialStore) loginKey(name string) string { return s.prefix + ":login:" + name }
func (s *CredentialStore) seqKey() string { return s.prefix + ":users:seq" }

func (s *CredentialStore) FindByLoginKey(ctx context.Context, name string) (*credential.Record, error) {
	id, err := s.rdb.Get(ctx, s.loginKey(name)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fromRedis(err)
	}
	return s.FindByID(ctx, id)
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*credential.Record, error) {
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return nil, nil
	}
	fields, err := s.rdb.HGetAll(ctx, s.userKey(id)).Result()
	if err != nil {
		return nil, fromRedis(err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	epoch, err := strconv.ParseInt(fields[fieldPassEpoch], 10, 64)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return &credential.Record{
		ID:                 id,
		Name:               fields[fieldName],
		Email:              fields[fieldEmail],
		Salt:               fields[fieldSalt],
		Secret:             fields[fieldSecret],
		LastPasswordChange: time.Unix(epoch, 0).UTC(),
	}, nil
}

// Save inserts rec and sets rec.ID to the allocated id.
func (s *CredentialStore) Save(ctx context.Context, rec *credential.Record) error {
	id, err := saveScript.Run(ctx, s.rdb,
		[]string{s.loginKey(rec.Name), s.seqKey()},
		s.userKeyPrefix(), rec.Name, rec.Email, rec.Salt, rec.Secret, rec.Epoch(),
	).Int64()
	if err != nil {
		return fromRedis(err)
	}
	if id == 0 {
		return apperrors.CredentialExists()
	}
	rec.ID = strconv.FormatInt(id, 10)
	return nil
}

// Update writes salt, secret and password epoch in one step.
func (s *CredentialStore) Update(ctx context.Context, rec *credential.Record) error {
	updated, err := updateScript.Run(ctx, s.rdb,
		[]string{s.userKey(rec.ID)},
		rec.Salt, rec.Secret, rec.Epoch(),
	).Int64()
	if err != nil {
		return fromRedis(err)
	}
	if updated == 0 {
		return apperrors.NotFound("credential")
	}
	return nil
}

// fromRedis maps a go-redis error to an AppError. Cancellation is returned
// unchanged.
func fromRedis(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.DatabaseError(err)
}
