package applications

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"neon/collab-portal/collab-portal-backend/internal/apperr"
	"neon/collab-portal/collab-portal-backend/internal/projects"
)

type ApplyRequest struct {
	ProjectID   uuid.UUID
	ApplicantID string
	SkillTypeID uuid.UUID
	Message     string
}

type ProcessRequest struct {
	ApplicationID   uuid.UUID
	Actor           string
	Decision        Status // StatusApproved or StatusRejected
	ResponseMessage string
}

type Service interface {
	Apply(ctx context.Context, req ApplyRequest) (*Application, error)
	Process(ctx context.Context, req ProcessRequest) (*Application, error)
	RemoveParticipant(ctx context.Context, projectID uuid.UUID, participantID, actor string) error
	ListByApplicant(ctx context.Context, applicantID string) ([]Application, error)
	ListPendingByProject(ctx context.Context, projectID uuid.UUID) ([]Application, error)
}

type applicationService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &applicationService{repo: repo, logger: logger}
}

// Apply files a pending application. A user may hold pending applications
// for different skills on the same project, but never two for the same one.
func (s *applicationService) Apply(ctx context.Context, req ApplyRequest) (*Application, error) {
	if req.ApplicantID == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "applicant id is required")
	}

	var created *Application
	err := s.repo.Transact(ctx, func(tx Repository) error {
		project, err := tx.GetProject(ctx, req.ProjectID)
		if err != nil {
			return apperr.Internal("lookup project", err)
		}
		if project == nil {
			return apperr.New(apperr.KindNotFound, "project not found")
		}
		if project.FounderID == req.ApplicantID {
			return apperr.New(apperr.KindInvalidState, "founders cannot apply to their own project")
		}
		if project.RecruitmentStatus != projects.RecruitmentOpen {
			return apperr.New(apperr.KindInvalidState, "project is not recruiting")
		}

		existing, err := tx.FindPending(ctx, req.ProjectID, req.ApplicantID, req.SkillTypeID)
		if err != nil {
			return apperr.Internal("lookup pending application", err)
		}
		if existing != nil {
			return apperr.New(apperr.KindConflict, "a pending application for this skill already exists")
		}

		application := &Application{
			ID:          uuid.New(),
			ProjectID:   req.ProjectID,
			ApplicantID: req.ApplicantID,
			SkillTypeID: req.SkillTypeID,
			Message:     req.Message,
			Status:      StatusPending,
		}
		if err := tx.Create(ctx, application); err != nil {
			return apperr.Internal("create application", err)
		}
		created = application
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application filed",
		zap.String("project_id", created.ProjectID.String()),
		zap.String("applicant_id", created.ApplicantID))
	return created, nil
}

// Process resolves a pending application. The decision is terminal: the
// record is never mutated again.
func (s *applicationService) Process(ctx context.Context, req ProcessRequest) (*Application, error) {
	if req.Decision != StatusApproved && req.Decision != StatusRejected {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "decision must be %s or %s", StatusApproved, StatusRejected)
	}

	var processed *Application
	err := s.repo.Transact(ctx, func(tx Repository) error {
		application, err := tx.GetByID(ctx, req.ApplicationID)
		if err != nil {
			return apperr.Internal("lookup application", err)
		}
		if application == nil {
			return apperr.New(apperr.KindNotFound, "application not found")
		}
		// The machine treats same-status writes as no-ops, but a
		// resolved application must never be processed again, not
		// even with the same decision.
		if application.Status != StatusPending || !StatusMachine.CanTransition(string(application.Status), string(req.Decision)) {
			return apperr.Newf(apperr.KindInvalidState, "application is already %s", application.Status)
		}

		project, err := tx.GetProject(ctx, application.ProjectID)
		if err != nil {
			return apperr.Internal("lookup project", err)
		}
		if project == nil {
			return apperr.New(apperr.KindNotFound, "project not found")
		}
		if project.FounderID != req.Actor {
			return apperr.New(apperr.KindUnauthorized, "only the founder may process applications")
		}

		application.Status = req.Decision
		application.ResponseMessage = req.ResponseMessage
		if err := tx.Update(ctx, application); err != nil {
			return apperr.Internal("update application", err)
		}
		processed = application
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application processed",
		zap.String("application_id", processed.ID.String()),
		zap.String("decision", string(processed.Status)))
	return processed, nil
}

// RemoveParticipant deletes the approved application, reverting the user
// to having no standing application. They may re-apply afterwards.
func (s *applicationService) RemoveParticipant(ctx context.Context, projectID uuid.UUID, participantID, actor string) error {
	return s.repo.Transact(ctx, func(tx Repository) error {
		project, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return apperr.Internal("lookup project", err)
		}
		if project == nil {
			return apperr.New(apperr.KindNotFound, "project not found")
		}
		if project.FounderID != actor {
			return apperr.New(apperr.KindUnauthorized, "only the founder may remove participants")
		}

		approved, err := tx.FindApproved(ctx, projectID, participantID)
		if err != nil {
			return apperr.Internal("lookup approved application", err)
		}
		if approved == nil {
			return apperr.New(apperr.KindNotFound, "user is not a participant of this project")
		}
		if err := tx.Delete(ctx, approved.ID); err != nil {
			return apperr.Internal("delete application", err)
		}
		return nil
	})
}

func (s *applicationService) ListByApplicant(ctx context.Context, applicantID string) ([]Application, error) {
	result, err := s.repo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, apperr.Internal("list applications", err)
	}
	return result, nil
}

func (s *applicationService) ListPendingByProject(ctx context.Context, projectID uuid.UUID) ([]Application, error) {
	result, err := s.repo.ListPendingByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Internal("list pending applications", err)
	}
	return result, nil
}
