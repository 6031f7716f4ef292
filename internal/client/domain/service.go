package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateClientRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type UpdateClientRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type Service interface {
	List(ctx context.Context, userID snowflake.ID) ([]Client, error)
	GetByID(ctx context.Context, userID snowflake.ID, id string) (Client, error)
	Create(ctx context.Context, userID snowflake.ID, req CreateClientRequest) (Client, error)
	Update(ctx context.Context, userID snowflake.ID, id string, req UpdateClientRequest) (Client, error)
	Delete(ctx context.Context, userID snowflake.ID, id string) error
}

var (
	ErrInvalidUser = errors.New("invalid_user")
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
)
