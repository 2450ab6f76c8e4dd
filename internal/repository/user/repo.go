// Package user persists accounts.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/yz-create/magicsearch/internal/db"
	"github.com/yz-create/magicsearch/internal/domain"
	domuser "github.com/yz-create/magicsearch/internal/domain/user"
)

// store is the consumer interface for user persistence (ISP).
type store interface {
	db.Querier
}

// Repo implements user row CRUD.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create inserts a user and sets u.ID. A taken username maps to
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u *domuser.User) error {
	err := r.store.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, is_admin)
		 VALUES ($1, $2, $3) RETURNING id`,
		u.Username, u.PasswordHash, u.IsAdmin,
	).Scan(&u.ID)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return fmt.Errorf("user %q: %w", u.Username, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("create user %q: %w", u.Username, err)
	}
	return nil
}

// GetByUsername reads one user; a missing username maps to domain.ErrNotFound.
func (r *Repo) GetByUsername(ctx context.Context, username string) (domuser.User, error) {
	var u domuser.User
	err := r.store.QueryRow(ctx,
		`SELECT id, username, password_hash, is_admin FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return domuser.User{}, domain.ErrNotFound
		}
		return domuser.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return u, nil
}
