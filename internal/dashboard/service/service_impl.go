package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/devgate/internal/dashboard/domain"
	"github.com/smallbiznis/devgate/internal/dashboard/repository"
	invoicedomain "github.com/smallbiznis/devgate/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	deadlineWindowDays = 7
	deadlineLimit      = 5
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo repository.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo repository.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("dashboard.service"),
		repo: p.Repo,
	}
}

func (s *Service) Overview(ctx context.Context, userID snowflake.ID) (domain.Overview, error) {
	if userID == 0 {
		return domain.Overview{}, domain.ErrInvalidUser
	}

	hours, amount, err := s.repo.UnbilledWork(ctx, s.db, userID)
	if err != nil {
		return domain.Overview{}, err
	}

	count, outstanding, err := s.repo.OutstandingInvoices(ctx, s.db, userID)
	if err != nil {
		return domain.Overview{}, err
	}

	monthStart, nextMonth := monthBounds(time.Now().UTC())
	revenue, err := s.repo.RevenueBetween(ctx, s.db, userID, monthStart, nextMonth)
	if err != nil {
		return domain.Overview{}, err
	}

	return domain.Overview{
		UnbilledHours:       hours,
		UnbilledAmount:      invoicedomain.Round2(amount),
		OutstandingInvoices: count,
		OutstandingAmount:   invoicedomain.Round2(outstanding),
		RevenueThisMonth:    invoicedomain.Round2(revenue),
	}, nil
}

func (s *Service) Metrics(ctx context.Context, userID snowflake.ID) (domain.Metrics, error) {
	if userID == 0 {
		return domain.Metrics{}, domain.ErrInvalidUser
	}

	now := time.Now().UTC()

	hours, err := s.repo.HoursSince(ctx, s.db, userID, weekStart(now))
	if err != nil {
		return domain.Metrics{}, err
	}

	pending, _, err := s.repo.OutstandingInvoices(ctx, s.db, userID)
	if err != nil {
		return domain.Metrics{}, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	deadlines, err := s.repo.UpcomingDeadlines(ctx, s.db, userID, today, today.AddDate(0, 0, deadlineWindowDays), deadlineLimit)
	if err != nil {
		return domain.Metrics{}, err
	}

	return domain.Metrics{
		HoursThisWeek:     hours,
		PendingInvoices:   pending,
		UpcomingDeadlines: deadlines,
	}, nil
}

func monthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// weekStart is the most recent Monday at midnight UTC.
func weekStart(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
