// Package domain contains the account model for authentication.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is an account holder. Every other entity is owned by one user,
// directly or through the client/project chain.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	ProfilePic   *string      `gorm:"type:text" json:"profile_pic,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }
