// Package services contains server-side business logic. AuthService exchanges
// a username and password for an access token; QueryService runs the
// verify, retrieve, answer pipeline for a bearer token.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/server/auth"
	"github.com/dmitrijs2005/ragkeeper/internal/server/repositories/users"
)

// AuthService verifies credentials against the user store.
type AuthService struct {
	users  users.Repository
	tokens *auth.TokenService
	log    logging.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(repo users.Repository, tokens *auth.TokenService, log logging.Logger) *AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &AuthService{users: repo, tokens: tokens, log: log}
}

// Login returns a token for valid credentials. An unknown user and a wrong
// password both yield common.ErrorUnauthorized, and both pay for one bcrypt
// comparison.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*auth.Token, error) {
	user, err := s.users.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			users.VerifyPassword(password, s.dummy())
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !users.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.UserName, user.Role)
	if err != nil {
		s.log.Error(ctx, "token issue failed", "error", err)
		return nil, common.ErrorInternal
	}
	return token, nil
}

// dummy is a hash no password matches, made at the current cost.
func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := users.HashPassword(string(common.GenerateRandByteArray(32)))
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
