// Package auth authenticates the single bookkeeping operator. There is no
// user table: credentials come from configuration, with the password stored
// as a bcrypt hash.
package auth

import (
	"context"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/karobar-books/karobar/internal/shared"
)

// RoleOwner is the only role; every authenticated session carries it.
const RoleOwner = "owner"

// Service verifies operator credentials.
type Service struct {
	username     string
	passwordHash []byte
}

// NewService builds Service from the configured admin credentials.
func NewService(username, passwordHash string) *Service {
	return &Service{username: username, passwordHash: []byte(passwordHash)}
}

// Authenticate checks the supplied credentials and returns the role on
// success. Username comparison is constant-time alongside the bcrypt check
// so both failure modes cost the same.
func (s *Service) Authenticate(_ context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", shared.ErrInvalidCredentials
	}
	return RoleOwner, nil
}
