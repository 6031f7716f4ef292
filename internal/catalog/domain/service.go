package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateServiceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Fee         float64 `json:"fee"`
}

type UpdateServiceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Fee         float64 `json:"fee"`
}

// Catalog manages the user's one-off services.
type Catalog interface {
	List(ctx context.Context, userID snowflake.ID) ([]Service, error)
	Create(ctx context.Context, userID snowflake.ID, req CreateServiceRequest) (Service, error)
	Update(ctx context.Context, userID snowflake.ID, id string, req UpdateServiceRequest) (Service, error)
	Delete(ctx context.Context, userID snowflake.ID, id string) error
}

var (
	ErrInvalidUser = errors.New("invalid_user")
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidFee  = errors.New("invalid_fee")
	ErrInvalidID   = errors.New("invalid_id")
	ErrInvoiced    = errors.New("service_invoiced")
	ErrNotFound    = errors.New("not_found")
)
