package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	projectdomain "github.com/smallbiznis/devgate/internal/project/domain"
	"gorm.io/gorm"
)

type Repository interface {
	UnbilledWork(ctx context.Context, db *gorm.DB, userID snowflake.ID) (hours, amount float64, err error)
	OutstandingInvoices(ctx context.Context, db *gorm.DB, userID snowflake.ID) (count int64, amount float64, err error)
	RevenueBetween(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) (float64, error)
	HoursSince(ctx context.Context, db *gorm.DB, userID snowflake.ID, since time.Time) (float64, error)
	UpcomingDeadlines(ctx context.Context, db *gorm.DB, userID snowflake.ID, after, before time.Time, limit int) ([]projectdomain.ProjectDetail, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

type workRow struct {
	Hours  float64
	Amount float64
}

func (r *repo) UnbilledWork(ctx context.Context, db *gorm.DB, userID snowflake.ID) (float64, float64, error) {
	var row workRow
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(te.hours), 0) AS hours,
		        COALESCE(SUM(te.hours * COALESCE(p.rate, 0)), 0) AS amount
		 FROM time_entries te
		 JOIN projects p ON p.id = te.project_id
		 JOIN clients c ON c.id = p.client_id
		 WHERE c.user_id = ? AND te.billed = ?`,
		userID,
		false,
	).Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Hours, row.Amount, nil
}

type outstandingRow struct {
	Count  int64
	Amount float64
}

func (r *repo) OutstandingInvoices(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, float64, error) {
	var row outstandingRow
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount
		 FROM invoices
		 WHERE user_id = ? AND status = ?`,
		userID,
		"PENDING",
	).Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Count, row.Amount, nil
}

func (r *repo) RevenueBetween(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) (float64, error) {
	var amount float64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0)
		 FROM invoices
		 WHERE user_id = ? AND status = ? AND date >= ? AND date < ?`,
		userID,
		"PAID",
		from,
		to,
	).Scan(&amount).Error
	if err != nil {
		return 0, err
	}
	return amount, nil
}

func (r *repo) HoursSince(ctx context.Context, db *gorm.DB, userID snowflake.ID, since time.Time) (float64, error) {
	var hours float64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(te.hours), 0)
		 FROM time_entries te
		 JOIN projects p ON p.id = te.project_id
		 JOIN clients c ON c.id = p.client_id
		 WHERE c.user_id = ? AND te.date >= ?`,
		userID,
		since,
	).Scan(&hours).Error
	if err != nil {
		return 0, err
	}
	return hours, nil
}

func (r *repo) UpcomingDeadlines(ctx context.Context, db *gorm.DB, userID snowflake.ID, after, before time.Time, limit int) ([]projectdomain.ProjectDetail, error) {
	var details []projectdomain.ProjectDetail
	err := db.WithContext(ctx).Raw(
		`SELECT p.id, p.client_id, c.name AS client_name, p.title, p.description,
		        p.rate, p.due_date, p.completed, p.completed_at, p.created_at, p.updated_at
		 FROM projects p
		 JOIN clients c ON c.id = p.client_id
		 WHERE c.user_id = ? AND p.completed = ? AND p.due_date IS NOT NULL
		   AND p.due_date >= ? AND p.due_date < ?
		 ORDER BY p.due_date ASC, p.id ASC
		 LIMIT ?`,
		userID,
		false,
		after,
		before,
		limit,
	).Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}
