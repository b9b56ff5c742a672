package security

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// PasswordChecker verifies the shared admin password against a bcrypt hash,
// or against the configured plain password when no hash is set.
type PasswordChecker struct {
	plain string
	hash  []byte
}

func NewPasswordChecker(plain, bcryptHash string) *PasswordChecker {
	c := &PasswordChecker{plain: plain}
	if bcryptHash != "" {
		c.hash = []byte(bcryptHash)
	}
	return c
}

func (c *PasswordChecker) Verify(password string) bool {
	if c.hash != nil {
		return bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
	}
	if c.plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.plain), []byte(password)) == 1
}

// HashPassword produces a bcrypt hash suitable for admin.password_hash.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
