package domain

import (
	"errors"
	"time"
)

const (
	RolePoster = "user"
	RoleWorker = "worker"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidRole reports whether role is one of the two account types.
func ValidRole(role string) bool {
	return role == RolePoster || role == RoleWorker
}

// User models an account holder: a job poster or a worker.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"`
	ProfilePhoto  string    `json:"profile_photo,omitempty"`
	WalletBalance float64   `json:"wallet_balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Identity is the authenticated actor decoded from a token.
type Identity struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Name string `json:"name"`
}

func (i Identity) IsPoster() bool { return i.Role == RolePoster }
func (i Identity) IsWorker() bool { return i.Role == RoleWorker }
