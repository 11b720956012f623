package models

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Position     string    `json:"position"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.FirstName) == "" {
		return ErrUserFirstNameRequired
	}
	if strings.TrimSpace(u.LastName) == "" {
		return ErrUserLastNameRequired
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrUserEmailInvalid
	}
	if !u.Role.Valid() {
		return ErrUserRoleInvalid
	}
	return nil
}

var (
	ErrUserFirstNameRequired = &ValidationError{Field: "first_name", Message: "First name is required"}
	ErrUserLastNameRequired  = &ValidationError{Field: "last_name", Message: "Last name is required"}
	ErrUserEmailInvalid      = &ValidationError{Field: "email", Message: "Email is invalid"}
	ErrUserPasswordRequired  = &ValidationError{Field: "password", Message: "Password is required"}
	ErrUserRoleInvalid       = &ValidationError{Field: "role", Message: "Role is invalid"}
)

type UserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Position  string `json:"position"`
	Role      Role   `json:"role"`
}

type RoleRequest struct {
	Role Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Principal is the authenticated caller, built from a verified token
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Permissions is the capability set of a role for one entity
type Permissions struct {
	Entity            string `json:"entity"`
	Read              bool   `json:"read"`
	Write             bool   `json:"write"`
	Delete            bool   `json:"delete"`
	ManageUsers       bool   `json:"manage_users"`
	ManageAssignments bool   `json:"manage_assignments"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
