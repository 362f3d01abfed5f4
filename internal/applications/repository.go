package applications

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"neon/collab-portal/collab-portal-backend/internal/projects"
)

type Repository interface {
	// Transact runs fn against a repository view bound to one
	// serializable transaction, so pending-uniqueness and the
	// pending-to-terminal rule survive interleaved requests.
	Transact(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, application *Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)
	Update(ctx context.Context, application *Application) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindPending(ctx context.Context, projectID uuid.UUID, applicantID string, skillTypeID uuid.UUID) (*Application, error)
	FindApproved(ctx context.Context, projectID uuid.UUID, applicantID string) (*Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]Application, error)
	ListPendingByProject(ctx context.Context, projectID uuid.UUID) ([]Application, error)

	GetProject(ctx context.Context, projectID uuid.UUID) (*projects.Project, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transact(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func (r *gormRepository) Create(ctx context.Context, application *Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	var application Application
	err := r.db.WithContext(ctx).First(&application, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *gormRepository) Update(ctx context.Context, application *Application) error {
	return r.db.WithContext(ctx).Save(application).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Application{}, "id = ?", id).Error
}

func (r *gormRepository) FindPending(ctx context.Context, projectID uuid.UUID, applicantID string, skillTypeID uuid.UUID) (*Application, error) {
	var application Application
	err := r.db.WithContext(ctx).
		First(&application, "project_id = ? AND applicant_id = ? AND skill_type_id = ? AND status = ?",
			projectID, applicantID, skillTypeID, StatusPending).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *gormRepository) FindApproved(ctx context.Context, projectID uuid.UUID, applicantID string) (*Application, error) {
	var application Application
	err := r.db.WithContext(ctx).
		First(&application, "project_id = ? AND applicant_id = ? AND status = ?",
			projectID, applicantID, StatusApproved).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *gormRepository) ListByApplicant(ctx context.Context, applicantID string) ([]Application, error) {
	var result []Application
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&result).Error
	return result, err
}

func (r *gormRepository) ListPendingByProject(ctx context.Context, projectID uuid.UUID) ([]Application, error) {
	var result []Application
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, StatusPending).
		Order("created_at ASC").
		Find(&result).Error
	return result, err
}

func (r *gormRepository) GetProject(ctx context.Context, projectID uuid.UUID) (*projects.Project, error) {
	var project projects.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}
