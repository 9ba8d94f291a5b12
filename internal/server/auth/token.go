// Package auth issues and verifies the signed bearer tokens that carry a
// user's identity and role.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/server/policy"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType is the scheme reported to clients alongside an access token.
const TokenType = "bearer"

// Claims is the token payload: the standard registered claims plus the
// caller's role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Principal is the verified identity behind a token.
type Principal struct {
	Identity string
	Role     policy.Role
}

// TokenService signs tokens with HS256. Verification is a pure function of
// the token, the secret and the clock; there is no revocation list.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	codec  *jwt.Parser
}

// Option customises a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret []byte, ttl time.Duration, opts ...Option) *TokenService {
	s := &TokenService{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
		codec:  jwt.NewParser(jwt.WithStrictDecoding()),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// TTL is the lifetime of newly issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for identity with the given role. The expiry has
// one-second precision.
func (s *TokenService) Issue(identity string, role policy.Role) (*Token, error) {
	if identity == "" {
		return nil, errors.New("issue token: empty identity")
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
		Role: string(role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Token{AccessToken: signed, TokenType: TokenType, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks a token and returns its principal. The signature is checked
// over the raw header and payload before anything is decoded, so any change
// to either, or to the signature, is reported as KindInvalidSignature. An
// authentic token past its expiry is KindExpired; a token with the wrong
// shape or unreadable claims is KindMalformed.
func (s *TokenService) Verify(token string) (*Principal, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, newAuthError(KindMalformed, jwt.ErrTokenMalformed)
	}

	sig, err := s.codec.DecodeSegment(parts[2])
	if err != nil {
		return nil, newAuthError(KindInvalidSignature, err)
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, s.secret); err != nil {
		return nil, newAuthError(KindInvalidSignature, err)
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, newAuthError(KindExpired, err)
	case err != nil:
		return nil, newAuthError(KindMalformed, err)
	case claims.Subject == "":
		return nil, newAuthError(KindMalformed, jwt.ErrTokenRequiredClaimMissing)
	}

	return &Principal{Identity: claims.Subject, Role: policy.ParseRole(claims.Role)}, nil
}
