package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/devgate/internal/timeentry/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *domain.TimeEntry) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*domain.EntryDetail, error)
	List(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.EntryDetail, error)
	ListUnbilled(ctx context.Context, db *gorm.DB, userID snowflake.ID, clientID snowflake.ID) ([]*domain.EntryDetail, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

const detailColumns = `
	te.id, te.project_id, p.title AS project_title, c.id AS client_id, c.name AS client_name,
	te.date, te.hours, COALESCE(p.rate, 0) AS rate, te.description, te.billed, te.created_at`

const detailJoins = `
	FROM time_entries te
	JOIN projects p ON p.id = te.project_id
	JOIN clients c ON c.id = p.client_id`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.TimeEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*domain.EntryDetail, error) {
	var detail domain.EntryDetail
	err := db.WithContext(ctx).Raw(
		`SELECT `+detailColumns+detailJoins+`
		 WHERE c.user_id = ? AND te.id = ?`,
		userID,
		id,
	).Scan(&detail).Error
	if err != nil {
		return nil, err
	}
	if detail.ID == 0 {
		return nil, nil
	}
	return &detail, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.EntryDetail, error) {
	var details []*domain.EntryDetail
	err := db.WithContext(ctx).Raw(
		`SELECT `+detailColumns+detailJoins+`
		 WHERE c.user_id = ?
		 ORDER BY te.date DESC, te.id DESC`,
		userID,
	).Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repo) ListUnbilled(ctx context.Context, db *gorm.DB, userID snowflake.ID, clientID snowflake.ID) ([]*domain.EntryDetail, error) {
	stmt := `SELECT ` + detailColumns + detailJoins + `
		 WHERE c.user_id = ? AND te.billed = ?`
	args := []any{userID, false}
	if clientID != 0 {
		stmt += ` AND c.id = ?`
		args = append(args, clientID)
	}
	stmt += ` ORDER BY te.date ASC, te.id ASC`

	var details []*domain.EntryDetail
	err := db.WithContext(ctx).Raw(stmt, args...).Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.TimeEntry{}).Error
}
