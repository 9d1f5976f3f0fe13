package authctx

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFrom_Anonymous(t *testing.T) {
	if _, ok := From(context.Background()); ok {
		t.Error("expected anonymous context")
	}
	if _, err := Require(context.Background()); !errors.Is(err, ErrAnonymous) {
		t.Errorf("expected ErrAnonymous, got %v", err)
	}
}

func TestWithAndFrom(t *testing.T) {
	epoch := time.Unix(1700000000, 0)
	ctx := With(context.Background(), Identity{ID: "1", Name: "ElonMusk", PasswordEpoch: epoch})

	id, ok := From(ctx)
	if !ok {
		t.Fatal("expected identity")
	}
	if id.ID != "1" || id.Name != "ElonMusk" || !id.PasswordEpoch.Equal(epoch) {
		t.Errorf("unexpected identity %+v", id)
	}
	if got, err := Require(ctx); err != nil || got.ID != "1" {
		t.Errorf("Require returned %+v, %v", got, err)
	}
}
