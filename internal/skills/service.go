package skills

import (
	"context"

	"github.com/google/uuid"

	"neon/collab-portal/collab-portal-backend/internal/apperr"
)

type CreateSkillTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateSkillType(ctx context.Context, req CreateSkillTypeRequest) (*SkillType, error) {
	if req.Name == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "name is required")
	}

	existing, err := s.repo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, apperr.Internal("lookup skill type", err)
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.KindConflict, "skill type %q already exists", req.Name)
	}

	skillType := &SkillType{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, skillType); err != nil {
		return nil, apperr.Internal("create skill type", err)
	}
	return skillType, nil
}

func (s *Service) GetSkillType(ctx context.Context, id uuid.UUID) (*SkillType, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup skill type", err)
	}
	if st == nil {
		return nil, apperr.New(apperr.KindNotFound, "skill type not found")
	}
	return st, nil
}

func (s *Service) ListSkillTypes(ctx context.Context) ([]SkillType, error) {
	types, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list skill types", err)
	}
	return types, nil
}
