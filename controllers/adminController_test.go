package controllers

import (
	"context"
	"errors"
	"testing"

	"coin-market/db"
)

func TestGrantCash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.putUser(player("u1", "alice", 1000))

	if err := f.admin.GrantCash(ctx, " alice ", 5000); err != nil {
		t.Fatalf("GrantCash: %v", err)
	}
	if c := f.store.user("u1").Cash; c != 6000 {
		t.Errorf("Cash = %d, want 6000", c)
	}

	if err := f.admin.GrantCash(ctx, "nobody", 5000); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("unknown nickname err = %v, want ErrNotFound", err)
	}
	if err := f.admin.GrantCash(ctx, "alice", 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero amount err = %v, want ErrInvalidInput", err)
	}
}
