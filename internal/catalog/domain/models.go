// Package domain contains persistence models for the one-off service
// catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Service is a one-time flat-fee offering owned by a user. Services
// carry no billed flag, so every service stays eligible for selection
// on later invoices.
type Service struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID `gorm:"not null;index" json:"user_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description *string      `gorm:"type:text" json:"description,omitempty"`
	Fee         float64      `gorm:"type:numeric(12,2);not null" json:"fee"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Service) TableName() string { return "services" }
