package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateEntryRequest struct {
	ProjectID   string  `json:"project_id"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

type Service interface {
	// List returns every entry for the user, newest first.
	List(ctx context.Context, userID snowflake.ID) ([]EntryDetail, error)
	// ListUnbilled returns the entries still eligible for invoicing,
	// optionally narrowed to one client. An unknown client yields an
	// empty result, not an error.
	ListUnbilled(ctx context.Context, userID snowflake.ID, clientID string) ([]EntryDetail, error)
	Create(ctx context.Context, userID snowflake.ID, req CreateEntryRequest) (EntryDetail, error)
	Delete(ctx context.Context, userID snowflake.ID, id string) error
}

var (
	ErrInvalidUser     = errors.New("invalid_user")
	ErrInvalidDate     = errors.New("invalid_date")
	ErrInvalidHours    = errors.New("invalid_hours")
	ErrInvalidID       = errors.New("invalid_id")
	ErrEntryBilled     = errors.New("entry_billed")
	ErrNotFound        = errors.New("not_found")
	ErrProjectNotFound = errors.New("project_not_found")
)
