package security

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"farmequip-backoffice/internal/config"
	"farmequip-backoffice/internal/domain"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// HashPassword returns a bcrypt hash suitable for the admin config.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticator checks the configured admin account and issues tokens.
type Authenticator struct {
	admin  config.AdminConfig
	tokens TokenManager
}

func NewAuthenticator(admin config.AdminConfig, tokens TokenManager) *Authenticator {
	return &Authenticator{admin: admin, tokens: tokens}
}

// Login returns a signed access token and the session it grants.
func (a *Authenticator) Login(username, password string) (string, domain.Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.admin.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(a.admin.PasswordHash), []byte(password))
	if !userOK || passErr != nil {
		return "", domain.Session{}, ErrInvalidCredentials
	}

	token, err := a.tokens.GenerateAccessToken(a.admin.Username, a.admin.Username, a.admin.Roles)
	if err != nil {
		return "", domain.Session{}, err
	}
	return token, domain.NewSession(a.admin.Username, a.admin.Username, a.admin.Roles), nil
}
