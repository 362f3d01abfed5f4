package skills

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, skillType *SkillType) error
	GetByID(ctx context.Context, id uuid.UUID) (*SkillType, error)
	GetByName(ctx context.Context, name string) (*SkillType, error)
	List(ctx context.Context) ([]SkillType, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, skillType *SkillType) error {
	return r.db.WithContext(ctx).Create(skillType).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*SkillType, error) {
	var st SkillType
	err := r.db.WithContext(ctx).First(&st, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *gormRepository) GetByName(ctx context.Context, name string) (*SkillType, error) {
	var st SkillType
	err := r.db.WithContext(ctx).First(&st, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *gormRepository) List(ctx context.Context) ([]SkillType, error) {
	var types []SkillType
	err := r.db.WithContext(ctx).Order("name asc").Find(&types).Error
	return types, err
}
