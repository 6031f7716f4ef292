// Package domain describes the user profile surface: reading the
// current account and replacing its avatar.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/devgate/internal/auth/domain"
)

var (
	ErrInvalidUser  = errors.New("invalid_user")
	ErrUserNotFound = errors.New("user_not_found")
	ErrEmptyFile    = errors.New("empty_avatar_file")
	ErrInvalidFile  = errors.New("invalid_avatar_file")
)

type Service interface {
	Me(ctx context.Context, userID snowflake.ID) (authdomain.User, error)
	SaveAvatar(ctx context.Context, userID snowflake.ID, filename string, data []byte) (authdomain.User, error)
}
