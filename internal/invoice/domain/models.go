// Package domain contains persistence models and the totals calculator
// for invoices.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus is the payment status of an invoice. Exactly two states
// exist; there is no draft, sent, or overdue state.
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "PENDING"
	StatusPaid    InvoiceStatus = "PAID"
)

// ParseStatus normalizes casing so "paid" and "PAID" land on the same
// enum value.
func ParseStatus(value string) (InvoiceStatus, error) {
	switch InvoiceStatus(strings.ToUpper(strings.TrimSpace(value))) {
	case StatusPending:
		return StatusPending, nil
	case StatusPaid:
		return StatusPaid, nil
	}
	return "", ErrInvalidStatus
}

// Invoice binds a selection of billed work to a date, an amount, and a
// payment status. ClientID records the single client every line on the
// invoice belongs to; it is nil only for service-only invoices whose
// services carry no client of their own.
type Invoice struct {
	ID        snowflake.ID       `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID       `gorm:"not null;index" json:"user_id"`
	ClientID  *snowflake.ID      `gorm:"index" json:"client_id,omitempty"`
	Date      time.Time          `gorm:"not null" json:"date"`
	Status    InvoiceStatus      `gorm:"type:varchar(16);not null;default:PENDING" json:"status"`
	Amount    float64            `gorm:"type:numeric(12,2);not null" json:"amount"`
	Metadata  datatypes.JSONMap  `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceEntry links one time entry to the invoice it was billed on.
// A time entry appears on at most one invoice.
type InvoiceEntry struct {
	InvoiceID   snowflake.ID `gorm:"primaryKey" json:"invoice_id"`
	TimeEntryID snowflake.ID `gorm:"primaryKey;uniqueIndex" json:"time_entry_id"`
}

func (InvoiceEntry) TableName() string { return "invoice_entries" }

// InvoiceService links one catalog service to an invoice. Services have
// no billed flag, so the same service may appear on many invoices.
type InvoiceService struct {
	InvoiceID snowflake.ID `gorm:"primaryKey" json:"invoice_id"`
	ServiceID snowflake.ID `gorm:"primaryKey" json:"service_id"`
}

func (InvoiceService) TableName() string { return "invoice_services" }

// ListItem is an invoice joined with its client for listing.
type ListItem struct {
	ID         snowflake.ID  `json:"id"`
	ClientID   *snowflake.ID `json:"client_id,omitempty"`
	ClientName *string       `json:"client_name,omitempty"`
	Date       time.Time     `json:"date"`
	Status     InvoiceStatus `json:"status"`
	Amount     float64       `json:"amount"`
	CreatedAt  time.Time     `json:"created_at"`
}

// EntryLine is a time entry resolved onto an invoice: the snapshot of
// hours and rate the totals and the rendered document are built from.
type EntryLine struct {
	ID           snowflake.ID `json:"id"`
	ClientName   string       `json:"client_name"`
	ProjectTitle string       `json:"project_title"`
	Date         time.Time    `json:"date"`
	Hours        float64      `json:"hours"`
	Rate         float64      `json:"rate"`
}

// Amount is the line total before tax.
func (l EntryLine) Amount() float64 { return l.Hours * l.Rate }

// ServiceLine is a one-time service resolved onto an invoice.
type ServiceLine struct {
	ID          snowflake.ID `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Fee         float64      `json:"fee"`
}

// Detail is an invoice with every line item resolved plus the
// recomputed totals block.
type Detail struct {
	Invoice
	ClientName *string       `json:"client_name,omitempty"`
	Entries    []EntryLine   `json:"entries"`
	Services   []ServiceLine `json:"services"`
	Totals     Totals        `json:"totals"`
}
