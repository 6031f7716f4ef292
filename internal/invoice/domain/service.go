package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/devgate/internal/catalog/domain"
	timeentrydomain "github.com/smallbiznis/devgate/internal/timeentry/domain"
)

var (
	ErrInvalidUser      = errors.New("invalid_user")
	ErrInvalidID        = errors.New("invalid_invoice_id")
	ErrInvalidStatus    = errors.New("invalid_invoice_status")
	ErrNotFound         = errors.New("invoice_not_found")
	ErrInvalidSelection = errors.New("invalid_selection")
	ErrMixedClients     = errors.New("mixed_clients")
	ErrAlreadyBilled    = errors.New("entry_already_billed")
	ErrNoContact        = errors.New("client_has_no_contact")
	ErrSendFailed       = errors.New("invoice_send_failed")
)

// CreateInvoiceRequest selects the billable items for one new invoice.
// Every selected time entry must belong to the same client. An empty
// selection is legal and yields a zero-amount invoice.
type CreateInvoiceRequest struct {
	EntryIDs   []string `json:"entry_ids"`
	ServiceIDs []string `json:"service_ids"`
}

// Billable is everything currently selectable for invoicing: unbilled
// time entries (optionally scoped to a client) and every defined
// service. Services carry no billed flag, so all of them are always
// eligible for re-selection.
type Billable struct {
	Entries  []timeentrydomain.EntryDetail `json:"entries"`
	Services []catalogdomain.Service       `json:"services"`
}

type Service interface {
	ListBillable(ctx context.Context, userID snowflake.ID, clientID string) (Billable, error)
	List(ctx context.Context, userID snowflake.ID) ([]ListItem, error)
	Get(ctx context.Context, userID snowflake.ID, id string) (Detail, error)
	Create(ctx context.Context, userID snowflake.ID, req CreateInvoiceRequest) (Invoice, error)
	MarkPaid(ctx context.Context, userID snowflake.ID, id string) (Invoice, error)
	Render(ctx context.Context, userID snowflake.ID, id string) ([]byte, error)
	Send(ctx context.Context, userID snowflake.ID, id string) error
}
