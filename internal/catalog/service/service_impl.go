package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/devgate/internal/catalog/domain"
	"github.com/smallbiznis/devgate/pkg/db/option"
	"github.com/smallbiznis/devgate/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	services repository.Repository[domain.Service]
}

func New(p Params) domain.Catalog {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("catalog.service"),
		genID:    p.GenID,
		services: repository.ProvideStore[domain.Service](p.DB),
	}
}

func (s *Service) List(ctx context.Context, userID snowflake.ID) ([]domain.Service, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	items, err := s.services.Find(ctx,
		&domain.Service{UserID: userID},
		option.WithOrder("created_at desc, id desc"),
	)
	if err != nil {
		return nil, err
	}

	services := make([]domain.Service, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		services = append(services, *item)
	}
	return services, nil
}

func (s *Service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateServiceRequest) (domain.Service, error) {
	if userID == 0 {
		return domain.Service{}, domain.ErrInvalidUser
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Service{}, domain.ErrInvalidName
	}
	if req.Fee < 0 {
		return domain.Service{}, domain.ErrInvalidFee
	}

	now := time.Now().UTC()
	service := domain.Service{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Name:        name,
		Description: optionalString(req.Description),
		Fee:         req.Fee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.services.Create(ctx, &service); err != nil {
		return domain.Service{}, err
	}
	return service, nil
}

func (s *Service) Update(ctx context.Context, userID snowflake.ID, id string, req domain.UpdateServiceRequest) (domain.Service, error) {
	if userID == 0 {
		return domain.Service{}, domain.ErrInvalidUser
	}

	serviceID, err := parseID(id)
	if err != nil {
		return domain.Service{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Service{}, domain.ErrInvalidName
	}
	if req.Fee < 0 {
		return domain.Service{}, domain.ErrInvalidFee
	}

	existing, err := s.services.FindOne(ctx, &domain.Service{ID: serviceID, UserID: userID})
	if err != nil {
		return domain.Service{}, err
	}
	if existing == nil {
		return domain.Service{}, domain.ErrNotFound
	}

	existing.Name = name
	existing.Description = optionalString(req.Description)
	existing.Fee = req.Fee
	existing.UpdatedAt = time.Now().UTC()

	if err := s.services.Update(ctx, serviceID.String(), map[string]any{
		"name":        existing.Name,
		"description": existing.Description,
		"fee":         existing.Fee,
		"updated_at":  existing.UpdatedAt,
	}); err != nil {
		return domain.Service{}, err
	}
	return *existing, nil
}

func (s *Service) Delete(ctx context.Context, userID snowflake.ID, id string) error {
	if userID == 0 {
		return domain.ErrInvalidUser
	}

	serviceID, err := parseID(id)
	if err != nil {
		return err
	}

	existing, err := s.services.FindOne(ctx, &domain.Service{ID: serviceID, UserID: userID})
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	// A service backing invoice lines cannot be removed without
	// changing the invoice's recomputed totals.
	var refs int64
	err = s.db.WithContext(ctx).
		Table("invoice_services").
		Where("service_id = ?", serviceID).
		Count(&refs).Error
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrInvoiced
	}

	return s.services.Delete(ctx, serviceID.String())
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
