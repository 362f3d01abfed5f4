package applications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"neon/collab-portal/collab-portal-backend/internal/apperr"
	"neon/collab-portal/collab-portal-backend/internal/projects"
)

type MockRepository struct {
	mock.Mock
}

// Transact runs fn against the mock itself; isolation is a database
// concern and out of scope here.
func (m *MockRepository) Transact(ctx context.Context, fn func(Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Create(ctx context.Context, application *Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Application), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, application *Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) FindPending(ctx context.Context, projectID uuid.UUID, applicantID string, skillTypeID uuid.UUID) (*Application, error) {
	args := m.Called(ctx, projectID, applicantID, skillTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Application), args.Error(1)
}

func (m *MockRepository) FindApproved(ctx context.Context, projectID uuid.UUID, applicantID string) (*Application, error) {
	args := m.Called(ctx, projectID, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Application), args.Error(1)
}

func (m *MockRepository) ListByApplicant(ctx context.Context, applicantID string) ([]Application, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Application), args.Error(1)
}

func (m *MockRepository) ListPendingByProject(ctx context.Context, projectID uuid.UUID) ([]Application, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Application), args.Error(1)
}

func (m *MockRepository) GetProject(ctx context.Context, projectID uuid.UUID) (*projects.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projects.Project), args.Error(1)
}

func openProject(founder string) *projects.Project {
	return &projects.Project{
		ID:                uuid.New(),
		FounderID:         founder,
		Status:            projects.StatusInProgress,
		RecruitmentStatus: projects.RecruitmentOpen,
	}
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := openProject("founder-1")
	skillID := uuid.New()
	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)
	repo.On("FindPending", mock.Anything, project.ID, "alice", skillID).Return(nil, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*applications.Application")).Return(nil)

	application, err := service.Apply(context.Background(), ApplyRequest{
		ProjectID:   project.ID,
		ApplicantID: "alice",
		SkillTypeID: skillID,
		Message:     "I can do backend work",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, application.Status)
	assert.Equal(t, "alice", application.ApplicantID)
	repo.AssertExpectations(t)
}

func TestApplyRejectsFounder(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := openProject("founder-1")
	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)

	_, err := service.Apply(context.Background(), ApplyRequest{
		ProjectID:   project.ID,
		ApplicantID: "founder-1",
		SkillTypeID: uuid.New(),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestApplyRejectsClosedRecruitment(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := openProject("founder-1")
	project.RecruitmentStatus = projects.RecruitmentClosed
	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)

	_, err := service.Apply(context.Background(), ApplyRequest{
		ProjectID:   project.ID,
		ApplicantID: "alice",
		SkillTypeID: uuid.New(),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestApplyRejectsDuplicatePending(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := openProject("founder-1")
	skillID := uuid.New()
	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)
	repo.On("FindPending", mock.Anything, project.ID, "alice", skillID).
		Return(&Application{ID: uuid.New(), Status: StatusPending}, nil)

	_, err := service.Apply(context.Background(), ApplyRequest{
		ProjectID:   project.ID,
		ApplicantID: "alice",
		SkillTypeID: skillID,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestApplyUnknownProject(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	projectID := uuid.New()
	repo.On("GetProject", mock.Anything, projectID).Return(nil, nil)

	_, err := service.Apply(context.Background(), ApplyRequest{
		ProjectID:   projectID,
		ApplicantID: "alice",
		SkillTypeID: uuid.New(),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestProcessApproves(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := openProject("founder-1")
	application := &Application{ID: uuid.New(), ProjectID: project.ID, ApplicantID: "alice", Status: StatusPending}
	repo.On("GetByID", mock.Anything, application.ID).Return(application, nil)
	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*applications.Application")).Return(nil)

	processed, err := service.Process(context.Background(), ProcessRequest{
		ApplicationID:   application.ID,
		Actor:           "founder-1",
		Decision:        StatusApproved,
		ResponseMessage: "welcome aboard",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, processed.Status)
	assert.Equal(t, "welcome aboard", processed.ResponseMessage)
	repo.AssertExpectations(t)
}

func TestProcessRejectsInvalidDecision(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	_, err := service.Process(context.Background(), ProcessRequest{
		ApplicationID: uuid.New(),
		Actor:         "founder-1",
		Decision:      Status("maybe"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestProcessRequiresFounder(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := openProject("founder-1")
	application := &Application{ID: uuid.New(), ProjectID: project.ID, Status: StatusPending}
	repo.On("GetByID", mock.Anything, application.ID).Return(application, nil)
	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)

	_, err := service.Process(context.Background(), ProcessRequest{
		ApplicationID: application.ID,
		Actor:         "mallory",
		Decision:      StatusApproved,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProcessResolvedApplicationFails(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	for _, status := range []Status{StatusApproved, StatusRejected} {
		application := &Application{ID: uuid.New(), ProjectID: uuid.New(), Status: status}
		repo.On("GetByID", mock.Anything, application.ID).Return(application, nil)

		// Re-issuing the same decision must fail too.
		_, err := service.Process(context.Background(), ProcessRequest{
			ApplicationID: application.ID,
			Actor:         "founder-1",
			Decision:      status,
		})
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState), string(status))

		_, err = service.Process(context.Background(), ProcessRequest{
			ApplicationID: application.ID,
			Actor:         "founder-1",
			Decision:      StatusApproved,
		})
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState), string(status))
	}
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRemoveParticipant(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := openProject("founder-1")
	approved := &Application{ID: uuid.New(), ProjectID: project.ID, ApplicantID: "alice", Status: StatusApproved}
	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)
	repo.On("FindApproved", mock.Anything, project.ID, "alice").Return(approved, nil)
	repo.On("Delete", mock.Anything, approved.ID).Return(nil)

	err := service.RemoveParticipant(context.Background(), project.ID, "alice", "founder-1")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRemoveParticipantRequiresFounder(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := openProject("founder-1")
	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)

	err := service.RemoveParticipant(context.Background(), project.ID, "alice", "mallory")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRemoveParticipantNotAMember(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := openProject("founder-1")
	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)
	repo.On("FindApproved", mock.Anything, project.ID, "ghost").Return(nil, nil)

	err := service.RemoveParticipant(context.Background(), project.ID, "ghost", "founder-1")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
