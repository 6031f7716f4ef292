package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/devgate/internal/project/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, project *domain.Project) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*domain.ProjectDetail, error)
	List(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.ProjectDetail, error)
	Update(ctx context.Context, db *gorm.DB, project *domain.Project) error
	SetCompletion(ctx context.Context, db *gorm.DB, project *domain.Project) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

const detailColumns = `
	p.id, p.client_id, c.name AS client_name, p.title, p.description, p.rate,
	p.due_date, p.completed, p.completed_at, p.created_at, p.updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Create(project).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*domain.ProjectDetail, error) {
	var detail domain.ProjectDetail
	err := db.WithContext(ctx).Raw(
		`SELECT `+detailColumns+`
		 FROM projects p
		 JOIN clients c ON c.id = p.client_id
		 WHERE c.user_id = ? AND p.id = ?`,
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

func (r *repo) List(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.ProjectDetail, error) {
	var details []*domain.ProjectDetail
	err := db.WithContext(ctx).Raw(
		`SELECT `+detailColumns+`
		 FROM projects p
		 JOIN clients c ON c.id = p.client_id
		 WHERE c.user_id = ?
		 ORDER BY p.completed ASC, p.due_date ASC, p.id ASC`,
		userID,
	).Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Exec(
		`UPDATE projects
		 SET client_id = ?, title = ?, description = ?, rate = ?, due_date = ?, updated_at = ?
		 WHERE id = ?`,
		project.ClientID,
		project.Title,
		project.Description,
		project.Rate,
		project.DueDate,
		project.UpdatedAt,
		project.ID,
	).Error
}

func (r *repo) SetCompletion(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Exec(
		`UPDATE projects
		 SET completed = ?, completed_at = ?, updated_at = ?
		 WHERE id = ?`,
		project.Completed,
		project.CompletedAt,
		project.UpdatedAt,
		project.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Project{}).Error
}
