package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal is the identity carried by a verified token. It is rebuilt from
// the token claims on every request and never persisted.
type Principal struct {
	ID      string
	Role    Role
	Secret  string
	Webhook string
	Expiry  time.Time
}

// Account is the stored credential record the service authenticates against.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	Secret       string
	Webhook      string
}

type Accounts interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
}

// Authorize reports whether role is a member of the required set. There is no
// role hierarchy: admin does not satisfy a user-only check unless listed.
func Authorize(role Role, required ...Role) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func HashMatchesPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
