// Package credentialtest holds a conformance suite shared by every
// credential.Store implementation.
package credentialtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kbukum/habit/auth/credential"
	apperrors "github.com/kbukum/habit/errors"
)

// NewStoreFunc returns an empty store for one subtest.
type NewStoreFunc func(t *testing.T) credential.Store

// RunStoreTests exercises the Store contract against newStore.
func RunStoreTests(t *testing.T, newStore NewStoreFunc) {
	t.Run("FindMissing", func(t *testing.T) { testFindMissing(t, newStore(t)) })
	t.Run("SaveAssignsSequentialIDs", func(t *testing.T) { testSaveAssignsIDs(t, newStore(t)) })
	t.Run("SaveDuplicateName", func(t *testing.T) { testSaveDuplicate(t, newStore(t)) })
	t.Run("UpdateReplacesPassword", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, newStore(t)) })
}

// Sample returns a record ready to Save.
func Sample(name string) *credential.Record {
	return &credential.Record{
		Name:               name,
		Email:              name + "@example.com",
		Salt:               "$2b$12$abcdefghijklmnopqrstuv",
		Secret:             "secret-" + name,
		LastPasswordChange: time.Unix(1700000000, 0).UTC(),
	}
}

func testFindMissing(t *testing.T, s credential.Store) {
	ctx := context.Background()
	rec, err := s.FindByLoginKey(ctx, "nobody")
	if err != nil || rec != nil {
		t.Errorf("FindByLoginKey(missing) = %v, %v; want nil, nil", rec, err)
	}
	rec, err = s.FindByID(ctx, "42")
	if err != nil || rec != nil {
		t.Errorf("FindByID(missing) = %v, %v; want nil, nil", rec, err)
	}
}

func testSaveAssignsIDs(t *testing.T, s credential.Store) {
	ctx := context.Background()
	first, second := Sample("ElonMusk"), Sample("Grace")
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.ID != "1" || second.ID != "2" {
		t.Fatalf("expected ids 1 and 2, got %q and %q", first.ID, second.ID)
	}

	byName, err := s.FindByLoginKey(ctx, "ElonMusk")
	if err != nil || byName == nil {
		t.Fatalf("FindByLoginKey = %v, %v", byName, err)
	}
	assertSame(t, first, byName)

	byID, err := s.FindByID(ctx, "2")
	if err != nil || byID == nil {
		t.Fatalf("FindByID = %v, %v", byID, err)
	}
	assertSame(t, second, byID)
}

func testSaveDuplicate(t *testing.T, s credential.Store) {
	ctx := context.Background()
	if err := s.Save(ctx, Sample("ElonMusk")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	err := s.Save(ctx, Sample("ElonMusk"))
	if !errors.Is(err, apperrors.CredentialExists()) {
		t.Errorf("expected CredentialExists, got %v", err)
	}
}

func testUpdate(t *testing.T, s credential.Store) {
	ctx := context.Background()
	rec := Sample("ElonMusk")
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	changed := rec.Clone()
	changed.Salt = "$2b$12$zyxwvutsrqponmlkjihgfe"
	changed.Secret = "rotated"
	changed.LastPasswordChange = rec.LastPasswordChange.Add(time.Minute)
	changed.Email = "ignored@example.com"
	if err := s.Update(ctx, changed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.FindByID(ctx, rec.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID = %v, %v", got, err)
	}
	if got.Salt != changed.Salt || got.Secret != changed.Secret {
		t.Errorf("salt/secret not updated: %+v", got)
	}
	if !got.LastPasswordChange.Equal(changed.LastPasswordChange) {
		t.Errorf("epoch = %v, want %v", got.LastPasswordChange, changed.LastPasswordChange)
	}
	if got.Email != rec.Email {
		t.Errorf("Update must only touch password fields, email became %q", got.Email)
	}
}

func testUpdateMissing(t *testing.T, s credential.Store) {
	rec := Sample("ghost")
	rec.ID = "99"
	if err := s.Update(context.Background(), rec); err == nil {
		t.Error("expected error updating a missing record")
	}
}

func assertSame(t *testing.T, want, got *credential.Record) {
	t.Helper()
	if got.ID != want.ID || got.Name != want.Name || got.Email != want.Email ||
		got.Salt != want.Salt || got.Secret != want.Secret ||
		!got.LastPasswordChange.Equal(want.LastPasswordChange) {
		t.Errorf("record mismatch:\n got  %+v\n want %+v", got, want)
	}
}
