package model

import "strings"

const (
	ROLE_ADMIN      = "admin"
	ROLE_LEITSTELLE = "leitstelle"
	ROLE_FEUERWEHR  = "feuerwehr"
	ROLE_POLIZEI    = "polizei"
	ROLE_RETTUNG    = "rettung"
)

// User is an operator account. Passwords are stored and compared as
// plaintext, matching the system this replaces.
type User struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Username string `gorm:"uniqueIndex" json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Role     string `json:"role" yaml:"role"`
}

func (u *User) GetUsername() string {
	if u == nil {
		return ""
	}

	return u.Username
}

func (u *User) GetRole() string {
	if u == nil {
		return ""
	}

	return u.Role
}

// IsDispatch reports whether the user belongs to the dispatch tier
// (admin or leitstelle), which sees everything.
func IsDispatch(role string) bool {
	switch strings.ToLower(role) {
	case ROLE_ADMIN, ROLE_LEITSTELLE:
		return true
	default:
		return false
	}
}
