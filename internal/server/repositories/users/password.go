package users

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor used for new hashes.
var HashCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of plain.
func HashPassword(plain string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

// VerifyPassword reports whether candidate matches storedHash. A malformed
// hash never matches.
func VerifyPassword(candidate string, storedHash []byte) bool {
	return bcrypt.CompareHashAndPassword(storedHash, []byte(candidate)) == nil
}
