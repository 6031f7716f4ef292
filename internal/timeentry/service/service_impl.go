package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	projectrepository "github.com/smallbiznis/devgate/internal/project/repository"
	"github.com/smallbiznis/devgate/internal/timeentry/domain"
	"github.com/smallbiznis/devgate/internal/timeentry/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        repository.Repository
	ProjectRepo projectrepository.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        repository.Repository
	projectRepo projectrepository.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("timeentry.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		projectRepo: p.ProjectRepo,
	}
}

func (s *Service) List(ctx context.Context, userID snowflake.ID) ([]domain.EntryDetail, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	items, err := s.repo.List(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return collect(items), nil
}

func (s *Service) ListUnbilled(ctx context.Context, userID snowflake.ID, clientID string) ([]domain.EntryDetail, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	var filter snowflake.ID
	if raw := strings.TrimSpace(clientID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			// unknown client selects nothing rather than failing
			return []domain.EntryDetail{}, nil
		}
		filter = parsed
	}

	items, err := s.repo.ListUnbilled(ctx, s.db, userID, filter)
	if err != nil {
		return nil, err
	}
	return collect(items), nil
}

func (s *Service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateEntryRequest) (domain.EntryDetail, error) {
	if userID == 0 {
		return domain.EntryDetail{}, domain.ErrInvalidUser
	}
	if req.Hours < 0 {
		return domain.EntryDetail{}, domain.ErrInvalidHours
	}

	projectID, err := snowflake.ParseString(strings.TrimSpace(req.ProjectID))
	if err != nil || projectID == 0 {
		return domain.EntryDetail{}, domain.ErrProjectNotFound
	}

	project, err := s.projectRepo.FindByID(ctx, s.db, userID, projectID)
	if err != nil {
		return domain.EntryDetail{}, err
	}
	if project == nil {
		return domain.EntryDetail{}, domain.ErrProjectNotFound
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		return domain.EntryDetail{}, domain.ErrInvalidDate
	}

	now := time.Now().UTC()
	entry := domain.TimeEntry{
		ID:          s.genID.Generate(),
		ProjectID:   projectID,
		Date:        date.UTC(),
		Hours:       req.Hours,
		Description: optionalString(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		return domain.EntryDetail{}, err
	}

	detail, err := s.repo.FindByID(ctx, s.db, userID, entry.ID)
	if err != nil {
		return domain.EntryDetail{}, err
	}
	if detail == nil {
		return domain.EntryDetail{}, domain.ErrNotFound
	}
	return *detail, nil
}

func (s *Service) Delete(ctx context.Context, userID snowflake.ID, id string) error {
	if userID == 0 {
		return domain.ErrInvalidUser
	}

	entryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || entryID == 0 {
		return domain.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, s.db, userID, entryID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	// Billed entries back lines on a persisted invoice; removing one
	// would change the invoice's recomputed totals.
	if existing.Billed {
		return domain.ErrEntryBilled
	}

	return s.repo.Delete(ctx, s.db, entryID)
}

func collect(items []*domain.EntryDetail) []domain.EntryDetail {
	details := make([]domain.EntryDetail, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		details = append(details, *item)
	}
	return details
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
