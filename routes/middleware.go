package routes

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coin-market/auth"
	"coin-market/controllers"
	"coin-market/db"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(ctx context.Context, token string) (*auth.Claims, error)
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func authenticate(c *gin.Context, tokens TokenParser) error {
	raw := bearer(c)
	if raw == "" {
		return auth.ErrInvalidToken
	}
	claims, err := tokens.Parse(c.Request.Context(), raw)
	if err != nil {
		return err
	}
	c.Set(controllers.ContextUID, claims.UID())
	c.Set(controllers.ContextClaims, claims)
	return nil
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c, tokens); err != nil {
			controllers.RespondError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is present and valid,
// and lets anonymous requests through.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearer(c) != "" {
			_ = authenticate(c, tokens)
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(users db.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		u, err := users.GetUser(ctx, c.GetString(controllers.ContextUID))
		if err != nil {
			controllers.RespondError(c, err)
			c.Abort()
			return
		}
		if !u.IsAdmin {
			controllers.RespondError(c, controllers.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
