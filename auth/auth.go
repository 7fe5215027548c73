// Package auth is the identity service: handle-to-email mapping, password
// hashing and signed session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"coin-market/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid handle or password")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidHandle      = errors.New("handle must not be empty or contain '@'")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Denylist stores revoked token ids.
type Denylist interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// Claims identify a signed-in user.
type Claims struct {
	jwt.RegisteredClaims
}

// UID is the user id the token was issued to.
func (c *Claims) UID() string { return c.Subject }

type Service struct {
	secret      []byte
	ttl         time.Duration
	emailDomain string
	minPassword int
	denylist    Denylist
	now         func() time.Time
}

func NewService(cfg config.AuthConfig, denylist Denylist) *Service {
	return &Service{
		secret:      []byte(cfg.JWTSecret),
		ttl:         cfg.TokenTTL,
		emailDomain: cfg.EmailDomain,
		minPassword: cfg.MinPasswordLength,
		denylist:    denylist,
		now:         time.Now,
	}
}

// EmailFor maps a user-chosen handle to its synthetic e-mail address.
func (s *Service) EmailFor(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || strings.Contains(handle, "@") {
		return "", ErrInvalidHandle
	}
	return strings.ToLower(handle) + "@" + s.emailDomain, nil
}

// HashPassword checks the length policy and returns a bcrypt hash.
func (s *Service) HashPassword(password string) (string, error) {
	if len(password) < s.minPassword {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueToken signs a session token for uid.
func (s *Service) IssueToken(uid string) (string, error) {
	now := s.now()
	claims := Claims{jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   uid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and rejects revoked ones.
func (s *Service) Parse(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// Revoke signs the token out for the rest of its lifetime.
func (s *Service) Revoke(ctx context.Context, claims *Claims) error {
	if s.denylist == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(s.now()))
}
