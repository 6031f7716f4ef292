package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (User, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	// Authenticate resolves a bearer token to the owning user ID.
	Authenticate(ctx context.Context, token string) (snowflake.ID, error)
	Me(ctx context.Context, userID snowflake.ID) (User, error)
}

var (
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrUserExists         = errors.New("user_exists")
	ErrUserNotFound       = errors.New("user_not_found")
)
