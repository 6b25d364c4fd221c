package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrOperatorExists     = errors.New("operator already exists")
)

// Operator is a gateway caller allowed to trigger write actions.
type Operator struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
