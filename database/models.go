package database

import (
	"strconv"
	"time"

	"github.com/kbukum/habit/auth/credential"
)

// userModel is the users table row.
type userModel struct {
	ID                 uint64 `gorm:"primaryKey;autoIncrement"`
	Name               string `gorm:"not null;uniqueIndex:idx_users_name"`
	Email              string `gorm:"not null;default:''"`
	Salt               string `gorm:"not null"`
	Secret             string `gorm:"not null"`
	LastPasswordUpdate int64  `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (userModel) TableName() string { return "users" }

func newUserModel(rec *credential.Record) *userModel {
	return &userModel{
		Name:               rec.Name,
		Email:              rec.Email,
		Salt:               rec.Salt,
		Secret:             rec.Secret,
		LastPasswordUpdate: rec.Epoch(),
	}
}

func (m *userModel) record() *credential.Record {
	return &credential.Record{
		ID:                 strconv.FormatUint(m.ID, 10),
		Name:               m.Name,
		Email:              m.Email,
		Salt:               m.Salt,
		Secret:             m.Secret,
		LastPasswordChange: time.Unix(m.LastPasswordUpdate, 0).UTC(),
	}
}
