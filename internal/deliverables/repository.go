package deliverables

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"neon/collab-portal/collab-portal-backend/internal/applications"
	"neon/collab-portal/collab-portal-backend/internal/projects"
)

type Repository interface {
	// Transact runs fn against a repository view bound to one
	// serializable transaction. The consensus evaluation reads
	// deliverables, applications and confirmations and must see a
	// single snapshot relative to the confirmation that triggered it.
	Transact(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, deliverable *Deliverable) error
	GetByID(ctx context.Context, id uuid.UUID) (*Deliverable, error)
	Update(ctx context.Context, deliverable *Deliverable) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Deliverable, error)
	ListReviewedByProject(ctx context.Context, projectID uuid.UUID) ([]Deliverable, error)

	CreateConfirmation(ctx context.Context, confirmation *Confirmation) error
	GetConfirmation(ctx context.Context, deliverableID uuid.UUID, userID string) (*Confirmation, error)
	ListConfirmedUserIDs(ctx context.Context, deliverableID uuid.UUID) ([]string, error)
	CountConfirmed(ctx context.Context, userID string, deliverableIDs []uuid.UUID) (int64, error)
	DeleteConfirmationsForDeliverable(ctx context.Context, deliverableID uuid.UUID) error

	GetProject(ctx context.Context, projectID uuid.UUID) (*projects.Project, error)
	ListApprovedApplicantIDs(ctx context.Context, projectID uuid.UUID) ([]string, error)
	// MarkProjectCompleted performs the idempotent in_progress to
	// completed transition, reporting whether this call made it.
	MarkProjectCompleted(ctx context.Context, projectID uuid.UUID) (bool, error)
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

func (r *gormRepository) Create(ctx context.Context, deliverable *Deliverable) error {
	return r.db.WithContext(ctx).Create(deliverable).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Deliverable, error) {
	var deliverable Deliverable
	err := r.db.WithContext(ctx).First(&deliverable, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deliverable, nil
}

func (r *gormRepository) Update(ctx context.Context, deliverable *Deliverable) error {
	return r.db.WithContext(ctx).Save(deliverable).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Deliverable{}, "id = ?", id).Error
}

func (r *gormRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Deliverable, error) {
	var result []Deliverable
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&result).Error
	return result, err
}

func (r *gormRepository) ListReviewedByProject(ctx context.Context, projectID uuid.UUID) ([]Deliverable, error) {
	var result []Deliverable
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, StatusReviewed).
		Find(&result).Error
	return result, err
}

func (r *gormRepository) CreateConfirmation(ctx context.Context, confirmation *Confirmation) error {
	return r.db.WithContext(ctx).Create(confirmation).Error
}

func (r *gormRepository) GetConfirmation(ctx context.Context, deliverableID uuid.UUID, userID string) (*Confirmation, error) {
	var confirmation Confirmation
	err := r.db.WithContext(ctx).
		First(&confirmation, "deliverable_id = ? AND user_id = ?", deliverableID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &confirmation, nil
}

func (r *gormRepository) ListConfirmedUserIDs(ctx context.Context, deliverableID uuid.UUID) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&Confirmation{}).
		Where("deliverable_id = ? AND confirmed = ?", deliverableID, true).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (r *gormRepository) CountConfirmed(ctx context.Context, userID string, deliverableIDs []uuid.UUID) (int64, error) {
	if len(deliverableIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Confirmation{}).
		Where("user_id = ? AND confirmed = ? AND deliverable_id IN ?", userID, true, deliverableIDs).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) DeleteConfirmationsForDeliverable(ctx context.Context, deliverableID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Confirmation{}, "deliverable_id = ?", deliverableID).Error
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

func (r *gormRepository) ListApprovedApplicantIDs(ctx context.Context, projectID uuid.UUID) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&applications.Application{}).
		Distinct("applicant_id").
		Where("project_id = ? AND status = ?", projectID, applications.StatusApproved).
		Pluck("applicant_id", &userIDs).Error
	return userIDs, err
}

func (r *gormRepository) MarkProjectCompleted(ctx context.Context, projectID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&projects.Project{}).
		Where("id = ? AND status = ?", projectID, projects.StatusInProgress).
		Update("status", projects.StatusCompleted)
	return res.RowsAffected > 0, res.Error
}
