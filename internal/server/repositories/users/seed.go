package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
	"github.com/dmitrijs2005/ragkeeper/internal/server/policy"
)

// SeedUser is a plaintext account description used for provisioning.
type SeedUser struct {
	UserName string
	Password string
	Role     policy.Role
}

// DemoUsers returns the development accounts.
func DemoUsers() []SeedUser {
	return []SeedUser{
		{UserName: "Tony", Password: "password123", Role: policy.RoleEngineering},
		{UserName: "Bruce", Password: "securepass", Role: policy.RoleMarketing},
		{UserName: "Sam", Password: "financepass", Role: policy.RoleFinance},
		{UserName: "Peter", Password: "pete123", Role: policy.RoleEngineering},
		{UserName: "Sid", Password: "sidpass123", Role: policy.RoleMarketing},
		{UserName: "Natasha", Password: "hrpass123", Role: policy.RoleHR},
	}
}

// Seed hashes and stores every account in seed. Accounts that already exist
// are left untouched, so Seed can run on every start.
func Seed(ctx context.Context, repo Repository, seed []SeedUser) (created int, err error) {
	for _, s := range seed {
		if !s.Role.Valid() {
			return created, fmt.Errorf("seed user %q: invalid role %q", s.UserName, s.Role)
		}

		hash, err := HashPassword(s.Password)
		if err != nil {
			return created, err
		}

		_, err = repo.Create(ctx, &models.User{UserName: s.UserName, PasswordHash: hash, Role: s.Role})
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			continue
		case err != nil:
			return created, fmt.Errorf("seed user %q: %w", s.UserName, err)
		}
		created++
	}
	return created, nil
}
