package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	clientrepository "github.com/smallbiznis/devgate/internal/client/repository"
	"github.com/smallbiznis/devgate/internal/project/domain"
	"github.com/smallbiznis/devgate/internal/project/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       repository.Repository
	ClientRepo clientrepository.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       repository.Repository
	clientRepo clientrepository.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("project.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		clientRepo: p.ClientRepo,
	}
}

func (s *Service) List(ctx context.Context, userID snowflake.ID) ([]domain.ProjectDetail, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	items, err := s.repo.List(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	details := make([]domain.ProjectDetail, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		details = append(details, *item)
	}
	return details, nil
}

func (s *Service) GetByID(ctx context.Context, userID snowflake.ID, id string) (domain.ProjectDetail, error) {
	if userID == 0 {
		return domain.ProjectDetail{}, domain.ErrInvalidUser
	}

	projectID, err := parseID(id)
	if err != nil {
		return domain.ProjectDetail{}, err
	}

	return s.findOwned(ctx, userID, projectID)
}

func (s *Service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateProjectRequest) (domain.ProjectDetail, error) {
	if userID == 0 {
		return domain.ProjectDetail{}, domain.ErrInvalidUser
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.ProjectDetail{}, domain.ErrInvalidTitle
	}
	if req.Rate != nil && *req.Rate < 0 {
		return domain.ProjectDetail{}, domain.ErrInvalidRate
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return domain.ProjectDetail{}, domain.ErrClientNotFound
	}

	owner, err := s.clientRepo.FindByID(ctx, s.db, userID, clientID)
	if err != nil {
		return domain.ProjectDetail{}, err
	}
	if owner == nil {
		return domain.ProjectDetail{}, domain.ErrClientNotFound
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return domain.ProjectDetail{}, err
	}

	now := time.Now().UTC()
	project := domain.Project{
		ID:          s.genID.Generate(),
		ClientID:    clientID,
		Title:       title,
		Description: optionalString(req.Description),
		Rate:        req.Rate,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &project); err != nil {
		return domain.ProjectDetail{}, err
	}

	return s.findOwned(ctx, userID, project.ID)
}

func (s *Service) Update(ctx context.Context, userID snowflake.ID, id string, req domain.UpdateProjectRequest) (domain.ProjectDetail, error) {
	if userID == 0 {
		return domain.ProjectDetail{}, domain.ErrInvalidUser
	}

	projectID, err := parseID(id)
	if err != nil {
		return domain.ProjectDetail{}, err
	}

	existing, err := s.findOwned(ctx, userID, projectID)
	if err != nil {
		return domain.ProjectDetail{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.ProjectDetail{}, domain.ErrInvalidTitle
	}
	if req.Rate != nil && *req.Rate < 0 {
		return domain.ProjectDetail{}, domain.ErrInvalidRate
	}

	clientID := existing.ClientID
	if raw := strings.TrimSpace(req.ClientID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil || parsed == 0 {
			return domain.ProjectDetail{}, domain.ErrClientNotFound
		}
		// moving a project is only allowed between the user's own clients
		owner, err := s.clientRepo.FindByID(ctx, s.db, userID, parsed)
		if err != nil {
			return domain.ProjectDetail{}, err
		}
		if owner == nil {
			return domain.ProjectDetail{}, domain.ErrClientNotFound
		}
		clientID = parsed
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return domain.ProjectDetail{}, err
	}

	project := domain.Project{
		ID:          projectID,
		ClientID:    clientID,
		Title:       title,
		Description: optionalString(req.Description),
		Rate:        req.Rate,
		DueDate:     dueDate,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Update(ctx, s.db, &project); err != nil {
		return domain.ProjectDetail{}, err
	}

	return s.findOwned(ctx, userID, projectID)
}

func (s *Service) Complete(ctx context.Context, userID snowflake.ID, id string) (domain.ProjectDetail, error) {
	return s.setCompletion(ctx, userID, id, true)
}

func (s *Service) Reactivate(ctx context.Context, userID snowflake.ID, id string) (domain.ProjectDetail, error) {
	return s.setCompletion(ctx, userID, id, false)
}

func (s *Service) setCompletion(ctx context.Context, userID snowflake.ID, id string, completed bool) (domain.ProjectDetail, error) {
	if userID == 0 {
		return domain.ProjectDetail{}, domain.ErrInvalidUser
	}

	projectID, err := parseID(id)
	if err != nil {
		return domain.ProjectDetail{}, err
	}

	if _, err := s.findOwned(ctx, userID, projectID); err != nil {
		return domain.ProjectDetail{}, err
	}

	now := time.Now().UTC()
	project := domain.Project{
		ID:        projectID,
		Completed: completed,
		UpdatedAt: now,
	}
	// stamp and clear together so the flag and timestamp never disagree
	if completed {
		project.CompletedAt = &now
	}

	if err := s.repo.SetCompletion(ctx, s.db, &project); err != nil {
		return domain.ProjectDetail{}, err
	}

	return s.findOwned(ctx, userID, projectID)
}

func (s *Service) Delete(ctx context.Context, userID snowflake.ID, id string) error {
	if userID == 0 {
		return domain.ErrInvalidUser
	}

	projectID, err := parseID(id)
	if err != nil {
		return err
	}

	if _, err := s.findOwned(ctx, userID, projectID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, s.db, projectID)
}

func (s *Service) findOwned(ctx context.Context, userID, projectID snowflake.ID) (domain.ProjectDetail, error) {
	item, err := s.repo.FindByID(ctx, s.db, userID, projectID)
	if err != nil {
		return domain.ProjectDetail{}, err
	}
	if item == nil {
		return domain.ProjectDetail{}, domain.ErrNotFound
	}
	return *item, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseDueDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*value))
	if err != nil {
		return nil, domain.ErrInvalidDueDate
	}
	parsed = parsed.UTC()
	return &parsed, nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
