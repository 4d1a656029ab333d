// Package operators manages the accounts allowed to read the message log.
package operators

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is returned for an unknown username, a wrong password, or an inactive operator.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when creating an operator whose username exists.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrUsernameRequired is returned when the username is blank.
	ErrUsernameRequired = errors.New("username is required")
	// ErrPasswordRequired is returned when the password is blank.
	ErrPasswordRequired = errors.New("password is required")
)

// Operator is an account that can sign in to the admin endpoints.
type Operator struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
