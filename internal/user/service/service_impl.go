package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	authdomain "github.com/smallbiznis/devgate/internal/auth/domain"
	"github.com/smallbiznis/devgate/internal/config"
	"github.com/smallbiznis/devgate/internal/user/domain"
	"github.com/smallbiznis/devgate/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

type Params struct {
	fx.In

	Cfg config.Config
	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	cfg   config.Config
	db    *gorm.DB
	log   *zap.Logger
	users repository.Repository[authdomain.User]
}

func New(p Params) domain.Service {
	return &Service{
		cfg:   p.Cfg,
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		users: repository.ProvideStore[authdomain.User](p.DB),
	}
}

func (s *Service) Me(ctx context.Context, userID snowflake.ID) (authdomain.User, error) {
	if userID == 0 {
		return authdomain.User{}, domain.ErrInvalidUser
	}

	user, err := s.users.FindOne(ctx, &authdomain.User{ID: userID})
	if err != nil {
		return authdomain.User{}, err
	}
	if user == nil {
		return authdomain.User{}, domain.ErrUserNotFound
	}
	return *user, nil
}

// SaveAvatar stores the uploaded image under the configured upload
// directory with a random filename and points the profile at it. The
// original filename only contributes its extension.
func (s *Service) SaveAvatar(ctx context.Context, userID snowflake.ID, filename string, data []byte) (authdomain.User, error) {
	if userID == 0 {
		return authdomain.User{}, domain.ErrInvalidUser
	}
	if len(data) == 0 {
		return authdomain.User{}, domain.ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return authdomain.User{}, domain.ErrInvalidFile
	}

	user, err := s.users.FindOne(ctx, &authdomain.User{ID: userID})
	if err != nil {
		return authdomain.User{}, err
	}
	if user == nil {
		return authdomain.User{}, domain.ErrUserNotFound
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return authdomain.User{}, err
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.cfg.UploadDir, name), data, 0o644); err != nil {
		return authdomain.User{}, err
	}

	picture := "/uploads/" + name
	user.ProfilePic = &picture
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, userID.String(), map[string]any{
		"profile_pic": user.ProfilePic,
		"updated_at":  user.UpdatedAt,
	}); err != nil {
		return authdomain.User{}, err
	}

	s.log.Info("avatar updated", zap.String("user_id", userID.String()))
	return *user, nil
}
