package user

import (
	"time"

	"github.com/google/uuid"
)

// MinPasswordLength is the shortest password accepted.
const MinPasswordLength = 6

// User is a shop owner account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ResetPasswordRequest is the change-password form.
type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}
