package projects

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"neon/collab-portal/collab-portal-backend/internal/apperr"
)

// Requests

type SkillRequirementInput struct {
	SkillTypeID   uuid.UUID `json:"skill_type_id"`
	RequiredCount int       `json:"required_count"`
	Importance    int       `json:"importance"`
	Description   string    `json:"description"`
}

type CreateProjectRequest struct {
	Name              string                  `json:"name"`
	ProjectType       string                  `json:"project_type"`
	EndTime           string                  `json:"end_time"`
	Description       string                  `json:"description"`
	Goal              string                  `json:"goal"`
	FounderID         string                  `json:"user_id"`
	SkillRequirements []SkillRequirementInput `json:"skill_requirements"`
}

type UpdateProjectRequest struct {
	Name              *string                  `json:"name"`
	ProjectType       *string                  `json:"project_type"`
	EndTime           *string                  `json:"end_time"`
	Description       *string                  `json:"description"`
	Goal              *string                  `json:"goal"`
	Status            *string                  `json:"status"`
	RecruitmentStatus *string                  `json:"recruitment_status"`
	SkillRequirements *[]SkillRequirementInput `json:"skill_requirements"`
}

// Service interface
type Service interface {
	CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, req UpdateProjectRequest, actor string) (*Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID, actor string) error
	ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error)
}

type projectService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &projectService{repo: repo, logger: logger}
}

func (s *projectService) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	if req.Name == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "name is required")
	}
	if req.ProjectType == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "project_type is required")
	}
	if req.FounderID == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "user_id is required")
	}

	endTime, err := time.Parse(EndTimeLayout, req.EndTime)
	if err != nil {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "end_time must match %q", EndTimeLayout)
	}

	projectID := uuid.New()
	requirements, err := s.buildRequirements(ctx, s.repo, projectID, req.SkillRequirements)
	if err != nil {
		return nil, err
	}

	project := &Project{
		ID:                projectID,
		Name:              req.Name,
		ProjectType:       req.ProjectType,
		EndTime:           endTime,
		Description:       req.Description,
		Goal:              req.Goal,
		Status:            StatusInProgress,
		RecruitmentStatus: RecruitmentOpen,
		FounderID:         req.FounderID,
		SkillRequirements: requirements,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, apperr.Internal("create project", err)
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("founder_id", project.FounderID))
	return project, nil
}

func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup project", err)
	}
	if project == nil {
		return nil, apperr.New(apperr.KindNotFound, "project not found")
	}
	return project, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id uuid.UUID, req UpdateProjectRequest, actor string) (*Project, error) {
	var updated *Project
	err := s.repo.Transact(ctx, func(tx Repository) error {
		project, err := tx.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal("lookup project", err)
		}
		if project == nil {
			return apperr.New(apperr.KindNotFound, "project not found")
		}
		if project.FounderID != actor {
			return apperr.New(apperr.KindUnauthorized, "only the founder may update the project")
		}

		if req.Name != nil {
			project.Name = *req.Name
		}
		if req.ProjectType != nil {
			project.ProjectType = *req.ProjectType
		}
		if req.EndTime != nil {
			endTime, err := time.Parse(EndTimeLayout, *req.EndTime)
			if err != nil {
				return apperr.Newf(apperr.KindInvalidArgument, "end_time must match %q", EndTimeLayout)
			}
			project.EndTime = endTime
		}
		if req.Description != nil {
			project.Description = *req.Description
		}
		if req.Goal != nil {
			project.Goal = *req.Goal
		}
		if req.Status != nil {
			if !StatusMachine.Valid(*req.Status) {
				return apperr.Newf(apperr.KindInvalidArgument, "unknown project status %q", *req.Status)
			}
			if !StatusMachine.CanTransition(string(project.Status), *req.Status) {
				return apperr.Newf(apperr.KindInvalidState, "cannot move project from %s to %s", project.Status, *req.Status)
			}
			project.Status = Status(*req.Status)
		}
		if req.RecruitmentStatus != nil {
			if !RecruitmentMachine.Valid(*req.RecruitmentStatus) {
				return apperr.Newf(apperr.KindInvalidArgument, "unknown recruitment status %q", *req.RecruitmentStatus)
			}
			project.RecruitmentStatus = RecruitmentStatus(*req.RecruitmentStatus)
		}

		if req.SkillRequirements != nil {
			requirements, err := s.buildRequirements(ctx, tx, id, *req.SkillRequirements)
			if err != nil {
				return err
			}
			if err := tx.ReplaceSkillRequirements(ctx, id, requirements); err != nil {
				return apperr.Internal("replace skill requirements", err)
			}
			project.SkillRequirements = requirements
		}

		if err := tx.Update(ctx, project); err != nil {
			return apperr.Internal("update project", err)
		}
		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *projectService) DeleteProject(ctx context.Context, id uuid.UUID, actor string) error {
	err := s.repo.Transact(ctx, func(tx Repository) error {
		project, err := tx.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal("lookup project", err)
		}
		if project == nil {
			return apperr.New(apperr.KindNotFound, "project not found")
		}
		if project.FounderID != actor {
			return apperr.New(apperr.KindUnauthorized, "only the founder may delete the project")
		}
		if err := tx.DeleteCascade(ctx, id); err != nil {
			return apperr.Internal("delete project", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("project deleted", zap.String("project_id", id.String()))
	return nil
}

func (s *projectService) ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("list projects", err)
	}
	return result, nil
}

// buildRequirements validates and numbers the requirement inputs,
// preserving the order they were submitted in.
func (s *projectService) buildRequirements(ctx context.Context, repo Repository, projectID uuid.UUID, inputs []SkillRequirementInput) ([]SkillRequirement, error) {
	requirements := make([]SkillRequirement, 0, len(inputs))
	for i, input := range inputs {
		if input.Importance < 1 || input.Importance > 5 {
			return nil, apperr.Newf(apperr.KindInvalidArgument, "skill requirement %d: importance must be between 1 and 5", i+1)
		}
		if input.RequiredCount < 1 {
			return nil, apperr.Newf(apperr.KindInvalidArgument, "skill requirement %d: required_count must be positive", i+1)
		}
		exists, err := repo.SkillTypeExists(ctx, input.SkillTypeID)
		if err != nil {
			return nil, apperr.Internal("lookup skill type", err)
		}
		if !exists {
			return nil, apperr.Newf(apperr.KindInvalidArgument, "skill requirement %d: unknown skill type", i+1)
		}
		requirements = append(requirements, SkillRequirement{
			ID:            uuid.New(),
			ProjectID:     projectID,
			SkillTypeID:   input.SkillTypeID,
			RequiredCount: input.RequiredCount,
			Importance:    input.Importance,
			Description:   input.Description,
			Position:      i,
		})
	}
	return requirements, nil
}
