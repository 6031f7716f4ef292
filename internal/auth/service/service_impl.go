package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/devgate/internal/auth/domain"
	"github.com/smallbiznis/devgate/internal/auth/password"
	"github.com/smallbiznis/devgate/internal/auth/token"
	"github.com/smallbiznis/devgate/internal/config"
	pkgdb "github.com/smallbiznis/devgate/pkg/db"
	"github.com/smallbiznis/devgate/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	users repository.Repository[domain.User]

	secret   []byte
	tokenTTL time.Duration
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		users:    repository.ProvideStore[domain.User](p.DB),
		secret:   []byte(p.Cfg.AuthJWTSecret),
		tokenTTL: time.Duration(p.Cfg.AuthTokenTTLHrs) * time.Hour,
	}
}

func (s *Service) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.ErrInvalidEmail
	}
	if len(req.Password) < 8 {
		return domain.User{}, domain.ErrInvalidPassword
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrUserExists
		}
		return domain.User{}, err
	}

	s.log.Info("user signed up", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindOne(ctx, &domain.User{Email: email})
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	signed, err := token.Generate(user.ID.String(), s.secret, s.tokenTTL)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{Token: signed}, nil
}

func (s *Service) Authenticate(ctx context.Context, raw string) (snowflake.ID, error) {
	userID, err := token.UserIDFrom(strings.TrimSpace(raw), s.secret)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}

	id, err := snowflake.ParseString(userID)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidToken
	}
	return id, nil
}

func (s *Service) Me(ctx context.Context, userID snowflake.ID) (domain.User, error) {
	user, err := s.users.FindOne(ctx, &domain.User{ID: userID})
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrUserNotFound
	}
	return *user, nil
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
