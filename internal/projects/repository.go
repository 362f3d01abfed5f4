package projects

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectFilter enumerates the optional list predicates.
type ProjectFilter struct {
	Name              string
	Types             []string
	Status            string
	RecruitmentStatus string
	SkillTypeIDs      []uuid.UUID
	Keyword           string
}

type Repository interface {
	// Transact runs fn against a repository view bound to one
	// serializable transaction.
	Transact(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	Update(ctx context.Context, project *Project) error
	ReplaceSkillRequirements(ctx context.Context, projectID uuid.UUID, reqs []SkillRequirement) error
	DeleteCascade(ctx context.Context, projectID uuid.UUID) error
	List(ctx context.Context, filter ProjectFilter) ([]Project, error)
	SkillTypeExists(ctx context.Context, skillTypeID uuid.UUID) (bool, error)
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

func (r *gormRepository) Create(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	var project Project
	err := r.db.WithContext(ctx).
		Preload("SkillRequirements", func(db *gorm.DB) *gorm.DB {
			return db.Order("skill_requirements.position ASC")
		}).
		First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *gormRepository) Update(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Omit("SkillRequirements").Save(project).Error
}

// ReplaceSkillRequirements is a full delete-then-insert, not a merge.
func (r *gormRepository) ReplaceSkillRequirements(ctx context.Context, projectID uuid.UUID, reqs []SkillRequirement) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("project_id = ?", projectID).Delete(&SkillRequirement{}).Error; err != nil {
		return err
	}
	if len(reqs) == 0 {
		return nil
	}
	return db.Create(&reqs).Error
}

// DeleteCascade removes the project and every record referencing it,
// dependents first, so a failed step never orphans children.
func (r *gormRepository) DeleteCascade(ctx context.Context, projectID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	for _, table := range []string{"confirmations", "deliverables", "applications", "skill_requirements"} {
		if err := db.Exec("DELETE FROM "+table+" WHERE project_id = ?", projectID).Error; err != nil {
			return err
		}
	}
	return db.Delete(&Project{}, "id = ?", projectID).Error
}

func (r *gormRepository) List(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	q := r.db.WithContext(ctx).Model(&Project{})

	if filter.Name != "" {
		q = q.Where("projects.name LIKE ?", "%"+filter.Name+"%")
	}
	if len(filter.Types) > 0 {
		q = q.Where("projects.project_type IN ?", filter.Types)
	}
	if filter.Status != "" {
		q = q.Where("projects.status = ?", filter.Status)
	}
	if filter.RecruitmentStatus != "" {
		q = q.Where("projects.recruitment_status = ?", filter.RecruitmentStatus)
	}
	if len(filter.SkillTypeIDs) > 0 {
		q = q.Distinct("projects.*").
			Joins("JOIN skill_requirements ON skill_requirements.project_id = projects.id").
			Where("skill_requirements.skill_type_id IN ?", filter.SkillTypeIDs)
	}
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		q = q.Where("projects.description LIKE ? OR projects.goal LIKE ?", keyword, keyword)
	}

	var result []Project
	err := q.Preload("SkillRequirements", func(db *gorm.DB) *gorm.DB {
		return db.Order("skill_requirements.position ASC")
	}).Find(&result).Error
	return result, err
}

func (r *gormRepository) SkillTypeExists(ctx context.Context, skillTypeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("skill_types").Where("id = ?", skillTypeID).Count(&count).Error
	return count > 0, err
}
