package auth

import (
	"context"

	domuser "github.com/yz-create/magicsearch/internal/domain/user"
)

// Users defines the storage contract for accounts.
type Users interface {
	Create(ctx context.Context, u *domuser.User) error
	GetByUsername(ctx context.Context, username string) (domuser.User, error)
}
