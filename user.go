package gorecipes

import (
	"regexp"
	"strings"

	"github.com/nellio/gorecipes/auth"
)

var emailRegexp = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// User is a registered account. The password hash and webhook secret are
// never serialized in responses.
type User struct {
	ID       ID        `bson:"_id" json:"id"`
	Username string    `bson:"username" json:"username"`
	Password string    `bson:"password" json:"-"`
	Email    string    `bson:"email" json:"email"`
	Role     auth.Role `bson:"role" json:"role"`
	Secret   string    `bson:"secret" json:"-"`
	Webhook  string    `bson:"webhook,omitempty" json:"webhook,omitempty"`
}

func (u *User) EntityID() ID      { return u.ID }
func (u *User) SetEntityID(id ID) { u.ID = id }

// NewUser validates username and email and returns an unsaved user with the
// default role. The password is hashed by the service before persistence.
func NewUser(username, email string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegexp.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	return &User{Username: username, Email: email, Role: auth.RoleUser}, nil
}
