// Package users is the credential store: it maps a username to the
// stored password hash and role.
package users

import (
	"context"

	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
)

// Repository looks up and provisions users. GetUserByLogin returns
// common.ErrorNotFound when the username is unknown; Create returns
// common.ErrorAlreadyExists for a duplicate username.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
