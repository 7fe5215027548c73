package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coin-market/auth"
	"coin-market/cache"
	"coin-market/db"
	"coin-market/game"
	"coin-market/models"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNicknameTaken  = errors.New("nickname already in use")
	ErrHandleTaken    = errors.New("handle already in use")
	ErrAlreadyClaimed = errors.New("already claimed today")
	ErrNotEligible    = errors.New("not eligible")
	ErrForbidden      = errors.New("admin only")
)

// Broadcaster pushes a message to every live feed subscriber.
type Broadcaster interface {
	Broadcast(msg models.WSMessage)
}

// Locker hands out named mutual-exclusion leases.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// Gin context keys set by the auth middleware.
const (
	ContextUID    = "uid"
	ContextClaims = "claims"
)

// errUnchanged tells mutateUser that fn made no change worth saving.
var errUnchanged = errors.New("unchanged")

// maxSaveAttempts bounds the read-modify-write retries on version conflicts.
const maxSaveAttempts = 3

// mutateUser re-reads the user and re-applies fn until the versioned save
// succeeds or attempts run out. fn must not keep state between calls.
func mutateUser(ctx context.Context, users db.UserStore, uid string, fn func(u *models.User) error) (*models.User, error) {
	var lastErr error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		u, err := users.GetUser(ctx, uid)
		if err != nil {
			return nil, err
		}
		if err := fn(u); err != nil {
			if errors.Is(err, errUnchanged) {
				return u, nil
			}
			return nil, err
		}
		err = users.SaveUser(ctx, u)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, db.ErrConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case game.IsValidation(err),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidHandle):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrNotEligible):
		return http.StatusForbidden
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNicknameTaken),
		errors.Is(err, ErrHandleTaken),
		errors.Is(err, ErrAlreadyClaimed),
		errors.Is(err, db.ErrDuplicate),
		errors.Is(err, db.ErrConflict),
		errors.Is(err, cache.ErrLockHeld):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as {"error": msg}. Internal failures get a
// generic message.
func RespondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

// requestContext bounds a handler's store calls.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}
