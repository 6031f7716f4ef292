package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateProjectRequest struct {
	ClientID    string   `json:"client_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Rate        *float64 `json:"rate"`
	DueDate     *string  `json:"due_date"`
}

type UpdateProjectRequest struct {
	ClientID    string   `json:"client_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Rate        *float64 `json:"rate"`
	DueDate     *string  `json:"due_date"`
}

type Service interface {
	// List returns every project for the user, active first, then by due date.
	List(ctx context.Context, userID snowflake.ID) ([]ProjectDetail, error)
	GetByID(ctx context.Context, userID snowflake.ID, id string) (ProjectDetail, error)
	Create(ctx context.Context, userID snowflake.ID, req CreateProjectRequest) (ProjectDetail, error)
	Update(ctx context.Context, userID snowflake.ID, id string, req UpdateProjectRequest) (ProjectDetail, error)
	// Complete marks the project done and stamps CompletedAt.
	Complete(ctx context.Context, userID snowflake.ID, id string) (ProjectDetail, error)
	// Reactivate clears both the completed flag and the timestamp.
	Reactivate(ctx context.Context, userID snowflake.ID, id string) (ProjectDetail, error)
	Delete(ctx context.Context, userID snowflake.ID, id string) error
}

var (
	ErrInvalidUser    = errors.New("invalid_user")
	ErrInvalidTitle   = errors.New("invalid_title")
	ErrInvalidRate    = errors.New("invalid_rate")
	ErrInvalidDueDate = errors.New("invalid_due_date")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
	ErrClientNotFound = errors.New("client_not_found")
)
