package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SignupRequest registers an owner and their shop in one step.
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	ShopName        string `json:"shop_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned on signup and login. Slug is empty when the owner has
// no shop yet.
type Session struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"user_id"`
	Slug   string    `json:"slug"`
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
}
