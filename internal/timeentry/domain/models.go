// Package domain contains persistence models for time entries.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TimeEntry is a unit of billable work on a project. Billed flips to
// true the moment the entry is attached to an invoice and never flips
// back; billed entries cannot be selected again.
type TimeEntry struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID   snowflake.ID `gorm:"not null;index" json:"project_id"`
	Date        time.Time    `gorm:"not null" json:"date"`
	Hours       float64      `gorm:"type:numeric(8,2);not null" json:"hours"`
	Description *string      `gorm:"type:text" json:"description,omitempty"`
	Billed      bool         `gorm:"not null;default:false" json:"billed"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TimeEntry) TableName() string { return "time_entries" }

// EntryDetail is a time entry joined with its project and client,
// annotated with the effective hourly rate (project rate or zero).
type EntryDetail struct {
	ID           snowflake.ID `json:"id"`
	ProjectID    snowflake.ID `json:"project_id"`
	ProjectTitle string       `json:"project_title"`
	ClientID     snowflake.ID `json:"client_id"`
	ClientName   string       `json:"client_name"`
	Date         time.Time    `json:"date"`
	Hours        float64      `json:"hours"`
	Rate         float64      `json:"rate"`
	Description  *string      `json:"description,omitempty"`
	Billed       bool         `json:"billed"`
	CreatedAt    time.Time    `json:"created_at"`
}
