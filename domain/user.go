package domain

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. Email is the natural key.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	DateCreated  time.Time `json:"dateCreated"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Redacted returns a copy safe to hand to API consumers.
func (u User) Redacted() User {
	u.PasswordHash = ""
	return u
}

// UserPatch carries a partial user update. Email is the key and is never
// patched; plain shallow overwrite for every source.
type UserPatch struct {
	Name *string `json:"name,omitempty"`
	Role *string `json:"role,omitempty"`
}

func (p UserPatch) Apply(user *User, _ Source) {
	if user == nil {
		return
	}
	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Role != nil {
		user.Role = *p.Role
	}
}
