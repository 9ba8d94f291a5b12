// Package models defines the server-side data shapes shared by repositories,
// services and transports.
package models

import (
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/server/policy"
)

// User is a provisioned account. PasswordHash is a bcrypt hash and is never
// sent over the wire.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	Role         policy.Role
	CreatedAt    time.Time
}
