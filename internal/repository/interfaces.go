package repository

import (
	"github.com/blaulicht/leitstelle/internal/model"
)

// UserRepository is the credential store behind the auth gate.
type UserRepository interface {
	Start() error
	Stop()
	// CheckCredentials returns the matching account for an exact
	// username/password pair, or nil.
	CheckCredentials(username, password string) *model.User
	Get(username string) *model.User
}
