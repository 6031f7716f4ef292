// Package domain contains persistence models for projects.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Project belongs to one client. Rate is the hourly rate inherited by
// the project's time entries; a NULL rate bills at zero. Completed and
// CompletedAt are always set or cleared together.
type Project struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ClientID    snowflake.ID `gorm:"not null;index" json:"client_id"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Description *string      `gorm:"type:text" json:"description,omitempty"`
	Rate        *float64     `gorm:"type:numeric(12,2)" json:"rate,omitempty"`
	DueDate     *time.Time   `gorm:"" json:"due_date,omitempty"`
	Completed   bool         `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time   `gorm:"" json:"completed_at,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// EffectiveRate is the hourly rate applied when billing this project's
// time entries. Unset rates bill at zero.
func (p Project) EffectiveRate() float64 {
	if p.Rate == nil {
		return 0
	}
	return *p.Rate
}

// ProjectDetail is a project row joined with its client name.
type ProjectDetail struct {
	ID          snowflake.ID `json:"id"`
	ClientID    snowflake.ID `json:"client_id"`
	ClientName  string       `json:"client_name"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Rate        *float64     `json:"rate,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Completed   bool         `json:"completed"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
