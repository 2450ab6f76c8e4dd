// Package auth handles account registration, login, and token verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yz-create/magicsearch/internal/domain"
	domuser "github.com/yz-create/magicsearch/internal/domain/user"
)

// Claims are the verified contents of an access token.
type Claims struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// Service issues and verifies HS256 access tokens.
type Service struct {
	users    Users
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// New creates an auth service.
func New(users Users, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{users: users, secret: secret, tokenTTL: tokenTTL, now: time.Now}
}

// Register creates a non-admin account. Admin accounts are provisioned out
// of band.
func (s *Service) Register(ctx context.Context, username, password string) (domuser.User, error) {
	u, err := domuser.New(username, password, false)
	if err != nil {
		return domuser.User{}, fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, err)
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return domuser.User{}, fmt.Errorf("register %q: %w", username, err)
	}
	return u, nil
}

// Login verifies credentials and returns a signed access token. An unknown
// username and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login %q: %w", username, err)
	}
	if !u.CheckPassword(password) {
		return "", domain.ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.Username,
		"uid":   u.ID,
		"admin": u.IsAdmin,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates an access token.
func (s *Service) VerifyToken(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, domain.ErrUnauthorized
	}

	claims := Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Username = sub
	}
	if uid, ok := mapClaims["uid"].(float64); ok {
		claims.UserID = int64(uid)
	}
	if admin, ok := mapClaims["admin"].(bool); ok {
		claims.IsAdmin = admin
	}
	if claims.Username == "" {
		return Claims{}, domain.ErrUnauthorized
	}
	return claims, nil
}
