// Package user defines the account entity for the auth layer.
package user

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// User is an account. PasswordHash is a bcrypt hash, never plaintext.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsAdmin      bool
}

// New validates credentials and creates a User with a hashed password.
func New(username, password string, isAdmin bool) (User, error) {
	if username == "" {
		return User{}, fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return User{}, fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	return User{Username: username, PasswordHash: string(hash), IsAdmin: isAdmin}, nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
