package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/devgate/internal/catalog/domain"
	"github.com/smallbiznis/devgate/internal/invoice/domain"
	timeentrydomain "github.com/smallbiznis/devgate/internal/timeentry/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error
	InsertEntryLinks(ctx context.Context, db *gorm.DB, links []domain.InvoiceEntry) error
	InsertServiceLinks(ctx context.Context, db *gorm.DB, links []domain.InvoiceService) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*domain.Invoice, error)
	List(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.ListItem, error)
	EntryLines(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.EntryLine, error)
	ServiceLines(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.ServiceLine, error)
	FindEntriesByIDs(ctx context.Context, db *gorm.DB, userID snowflake.ID, ids []snowflake.ID) ([]*timeentrydomain.EntryDetail, error)
	FindServicesByIDs(ctx context.Context, db *gorm.DB, userID snowflake.ID, ids []snowflake.ID) ([]*catalogdomain.Service, error)
	MarkEntriesBilled(ctx context.Context, db *gorm.DB, ids []snowflake.ID) error
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.InvoiceStatus) error
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) InsertEntryLinks(ctx context.Context, db *gorm.DB, links []domain.InvoiceEntry) error {
	if len(links) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&links).Error
}

func (r *repo) InsertServiceLinks(ctx context.Context, db *gorm.DB, links []domain.InvoiceService) error {
	if len(links) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&links).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.ListItem, error) {
	var items []*domain.ListItem
	err := db.WithContext(ctx).Raw(
		`SELECT i.id, i.client_id, c.name AS client_name, i.date, i.status, i.amount, i.created_at
		 FROM invoices i
		 LEFT JOIN clients c ON c.id = i.client_id
		 WHERE i.user_id = ?
		 ORDER BY i.date DESC, i.id DESC`,
		userID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) EntryLines(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.EntryLine, error) {
	var lines []domain.EntryLine
	err := db.WithContext(ctx).Raw(
		`SELECT te.id, c.name AS client_name, p.title AS project_title,
		        te.date, te.hours, COALESCE(p.rate, 0) AS rate
		 FROM invoice_entries ie
		 JOIN time_entries te ON te.id = ie.time_entry_id
		 JOIN projects p ON p.id = te.project_id
		 JOIN clients c ON c.id = p.client_id
		 WHERE ie.invoice_id = ?
		 ORDER BY te.date ASC, te.id ASC`,
		invoiceID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repo) ServiceLines(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.ServiceLine, error) {
	var lines []domain.ServiceLine
	err := db.WithContext(ctx).Raw(
		`SELECT s.id, s.name, s.description, s.fee
		 FROM invoice_services isv
		 JOIN services s ON s.id = isv.service_id
		 WHERE isv.invoice_id = ?
		 ORDER BY s.name ASC, s.id ASC`,
		invoiceID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repo) FindEntriesByIDs(ctx context.Context, db *gorm.DB, userID snowflake.ID, ids []snowflake.ID) ([]*timeentrydomain.EntryDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var details []*timeentrydomain.EntryDetail
	err := db.WithContext(ctx).Raw(
		`SELECT te.id, te.project_id, p.title AS project_title, c.id AS client_id, c.name AS client_name,
		        te.date, te.hours, COALESCE(p.rate, 0) AS rate, te.description, te.billed, te.created_at
		 FROM time_entries te
		 JOIN projects p ON p.id = te.project_id
		 JOIN clients c ON c.id = p.client_id
		 WHERE c.user_id = ? AND te.id IN ?`,
		userID,
		ids,
	).Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repo) FindServicesByIDs(ctx context.Context, db *gorm.DB, userID snowflake.ID, ids []snowflake.ID) ([]*catalogdomain.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var services []*catalogdomain.Service
	err := db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repo) MarkEntriesBilled(ctx context.Context, db *gorm.DB, ids []snowflake.ID) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&timeentrydomain.TimeEntry{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"billed": true, "updated_at": time.Now().UTC()}).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.InvoiceStatus) error {
	return db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()}).Error
}
