package user

import (
	"time"

	"lms/internal/apperr"
)

const (
	RoleStudent   = "student"
	RoleLibrarian = "librarian"
)

var (
	ErrNotFound      = apperr.NotFound("User not found")
	ErrAlreadyExists = apperr.AlreadyExists("Username already exists")
)

// User is a library account. Students carry a program and a university id.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Program      string    `json:"program,omitempty"`
	StudentID    string    `json:"student_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) IsLibrarian() bool {
	return u.Role == RoleLibrarian
}

// RegisterInput carries a new account before its password is hashed.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FullName  string
	Role      string
	Program   string
	StudentID string
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsLibrarian() bool {
	return a.Role == RoleLibrarian
}

// CanAccess reports whether the actor may see data owned by ownerID.
func (a Actor) CanAccess(ownerID string) bool {
	return a.IsLibrarian() || a.ID == ownerID
}
