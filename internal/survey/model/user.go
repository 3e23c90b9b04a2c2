package model

import "time"

// User accounts are pre-provisioned out of band (see cmd/seed); the service
// itself only mutates LastLoginAt.
type User struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	Phone        string     `json:"phone" bson:"phone"`
	PasswordHash string     `json:"-" bson:"password_hash"`
	Name         string     `json:"name" bson:"name"`
	Role         string     `json:"role" bson:"role"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is the authenticated caller state injected into request context
// by the auth middleware. Persistence lives behind auth.SessionStore.
type Session struct {
	TokenID   string    `json:"token_id"`
	UserID    string    `json:"user_id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
