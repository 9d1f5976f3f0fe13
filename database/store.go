package database

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/kbukum/habit/auth/credential"
	apperrors "github.com/kbukum/habit/errors"
)

// CredentialStore is a credential.Store backed by the users table.
type CredentialStore struct {
	db *DB
}

var _ credential.Store = (*CredentialStore)(nil)

// NewCredentialStore creates a store on db. The schema must be migrated.
func NewCredentialStore(db *DB) *CredentialStore {
	return &CredentialStore{db: db}
}

func (s *CredentialStore) FindByLoginKey(ctx context.Context, name string) (*credential.Record, error) {
	return s.take(ctx, "name = ?", name)
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*credential.Record, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil, nil
	}
	return s.take(ctx, "id = ?", n)
}

func (s *CredentialStore) take(ctx context.Context, query string, arg any) (*credential.Record, error) {
	var m userModel
	err := s.db.WithContext(ctx).Where(query, arg).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, FromDatabase(err)
	}
	return m.record(), nil
}

// Save inserts rec and sets rec.ID to the generated row id.
func (s *CredentialStore) Save(ctx context.Context, rec *credential.Record) error {
	m := newUserModel(rec)
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return FromDatabase(err)
	}
	rec.ID = strconv.FormatUint(m.ID, 10)
	return nil
}

// Update writes salt, secret and password epoch in one statement.
func (s *CredentialStore) Update(ctx context.Context, rec *credential.Record) error {
	id, err := strconv.ParseUint(rec.ID, 10, 64)
	if err != nil {
		return apperrors.NotFound("credential")
	}
	res := s.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"salt":                 rec.Salt,
		"secret":               rec.Secret,
		"last_password_update": rec.Epoch(),
	})
	if res.Error != nil {
		return FromDatabase(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("credential")
	}
	return nil
}
