package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"coin-market/auth"
	"coin-market/cache"
	"coin-market/db"
	"coin-market/game"
	"coin-market/models"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{game.ErrInsufficientCash, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", ErrInvalidInput), http.StatusBadRequest},
		{auth.ErrWeakPassword, http.StatusBadRequest},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotEligible, http.StatusForbidden},
		{db.ErrNotFound, http.StatusNotFound},
		{ErrNicknameTaken, http.StatusConflict},
		{ErrAlreadyClaimed, http.StatusConflict},
		{db.ErrConflict, http.StatusConflict},
		{cache.ErrLockHeld, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errBoom, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestMutateUser_StopsOnFnError(t *testing.T) {
	s := newMemStore()
	s.putUser(player("u1", "alice", 10))

	calls := 0
	_, err := mutateUser(context.Background(), s, "u1", func(u *models.User) error {
		calls++
		return ErrNotEligible
	})
	if !errors.Is(err, ErrNotEligible) || calls != 1 {
		t.Errorf("err = %v calls = %d; want ErrNotEligible after one call", err, calls)
	}

	if _, err := mutateUser(context.Background(), s, "missing", func(*models.User) error { return nil }); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("missing user err = %v", err)
	}
}
