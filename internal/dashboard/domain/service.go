// Package dashboard aggregates billing state into the numbers the
// landing page shows.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	projectdomain "github.com/smallbiznis/devgate/internal/project/domain"
)

var ErrInvalidUser = errors.New("invalid_user")

// Overview is the headline financial snapshot: work logged but not yet
// invoiced, invoices awaiting payment, and revenue collected in the
// current calendar month.
type Overview struct {
	UnbilledHours       float64 `json:"unbilled_hours"`
	UnbilledAmount      float64 `json:"unbilled_amount"`
	OutstandingInvoices int64   `json:"outstanding_invoices"`
	OutstandingAmount   float64 `json:"outstanding_amount"`
	RevenueThisMonth    float64 `json:"revenue_this_month"`
}

// Metrics is the activity strip: hours logged since the start of the
// week, pending invoice count, and the next project deadlines.
type Metrics struct {
	HoursThisWeek     float64                       `json:"hours_this_week"`
	PendingInvoices   int64                         `json:"pending_invoices"`
	UpcomingDeadlines []projectdomain.ProjectDetail `json:"upcoming_deadlines"`
}

type Service interface {
	Overview(ctx context.Context, userID snowflake.ID) (Overview, error)
	Metrics(ctx context.Context, userID snowflake.ID) (Metrics, error)
}
