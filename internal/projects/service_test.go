package projects

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"neon/collab-portal/collab-portal-backend/internal/apperr"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Transact(ctx context.Context, fn func(Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Create(ctx context.Context, project *Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Project), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, project *Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockRepository) ReplaceSkillRequirements(ctx context.Context, projectID uuid.UUID, reqs []SkillRequirement) error {
	args := m.Called(ctx, projectID, reqs)
	return args.Error(0)
}

func (m *MockRepository) DeleteCascade(ctx context.Context, projectID uuid.UUID) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Project), args.Error(1)
}

func (m *MockRepository) SkillTypeExists(ctx context.Context, skillTypeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, skillTypeID)
	return args.Bool(0), args.Error(1)
}

func strptr(s string) *string { return &s }

func validCreateRequest() CreateProjectRequest {
	return CreateProjectRequest{
		Name:        "Weather Dashboard",
		ProjectType: "web",
		EndTime:     "2026-12-31 18:00:00",
		Description: "A dashboard for local forecasts",
		Goal:        "Ship an MVP",
		FounderID:   "founder-1",
	}
}

func TestCreateProjectDefaults(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("Create", mock.Anything, mock.AnythingOfType("*projects.Project")).Return(nil)

	project, err := service.CreateProject(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusInProgress, project.Status)
	assert.Equal(t, RecruitmentOpen, project.RecruitmentStatus)
	assert.Equal(t, "founder-1", project.FounderID)
	assert.NotEqual(t, uuid.Nil, project.ID)
}

func TestCreateProjectRejectsBadEndTime(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	req := validCreateRequest()
	req.EndTime = "31/12/2026"

	_, err := service.CreateProject(context.Background(), req)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProjectRequiresName(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	req := validCreateRequest()
	req.Name = ""

	_, err := service.CreateProject(context.Background(), req)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestCreateProjectPreservesRequirementOrder(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	skills := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	req := validCreateRequest()
	for _, id := range skills {
		req.SkillRequirements = append(req.SkillRequirements, SkillRequirementInput{
			SkillTypeID:   id,
			RequiredCount: 2,
			Importance:    4,
		})
		repo.On("SkillTypeExists", mock.Anything, id).Return(true, nil)
	}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*projects.Project")).Return(nil)

	project, err := service.CreateProject(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, project.SkillRequirements, 3)
	for i, requirement := range project.SkillRequirements {
		assert.Equal(t, skills[i], requirement.SkillTypeID)
		assert.Equal(t, i, requirement.Position)
		assert.Equal(t, project.ID, requirement.ProjectID)
	}
}

func TestCreateProjectRejectsBadImportance(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	for _, importance := range []int{0, 6, -1} {
		req := validCreateRequest()
		req.SkillRequirements = []SkillRequirementInput{{
			SkillTypeID:   uuid.New(),
			RequiredCount: 1,
			Importance:    importance,
		}}

		_, err := service.CreateProject(context.Background(), req)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument), "importance %d", importance)
	}
}

func TestCreateProjectRejectsUnknownSkillType(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	skillID := uuid.New()
	repo.On("SkillTypeExists", mock.Anything, skillID).Return(false, nil)

	req := validCreateRequest()
	req.SkillRequirements = []SkillRequirementInput{{
		SkillTypeID:   skillID,
		RequiredCount: 1,
		Importance:    3,
	}}

	_, err := service.CreateProject(context.Background(), req)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateProjectRequiresFounder(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := &Project{ID: uuid.New(), FounderID: "founder-1", Status: StatusInProgress}
	repo.On("GetByID", mock.Anything, project.ID).Return(project, nil)

	_, err := service.UpdateProject(context.Background(), project.ID,
		UpdateProjectRequest{Name: strptr("hijacked")}, "mallory")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProjectFieldsAndRecruitment(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := &Project{
		ID:                uuid.New(),
		FounderID:         "founder-1",
		Name:              "Old Name",
		Status:            StatusInProgress,
		RecruitmentStatus: RecruitmentOpen,
	}
	repo.On("GetByID", mock.Anything, project.ID).Return(project, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*projects.Project")).Return(nil)

	updated, err := service.UpdateProject(context.Background(), project.ID, UpdateProjectRequest{
		Name:              strptr("New Name"),
		RecruitmentStatus: strptr(string(RecruitmentClosed)),
	}, "founder-1")
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, RecruitmentClosed, updated.RecruitmentStatus)
	repo.AssertExpectations(t)
}

func TestUpdateProjectCompletionIsMonotonic(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := &Project{ID: uuid.New(), FounderID: "founder-1", Status: StatusCompleted}
	repo.On("GetByID", mock.Anything, project.ID).Return(project, nil)

	_, err := service.UpdateProject(context.Background(), project.ID,
		UpdateProjectRequest{Status: strptr(string(StatusInProgress))}, "founder-1")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProjectRejectsUnknownStatus(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := &Project{ID: uuid.New(), FounderID: "founder-1", Status: StatusInProgress}
	repo.On("GetByID", mock.Anything, project.ID).Return(project, nil)

	_, err := service.UpdateProject(context.Background(), project.ID,
		UpdateProjectRequest{Status: strptr("archived")}, "founder-1")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestUpdateProjectReplacesRequirements(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := &Project{ID: uuid.New(), FounderID: "founder-1", Status: StatusInProgress}
	skillID := uuid.New()
	repo.On("GetByID", mock.Anything, project.ID).Return(project, nil)
	repo.On("SkillTypeExists", mock.Anything, skillID).Return(true, nil)
	repo.On("ReplaceSkillRequirements", mock.Anything, project.ID, mock.AnythingOfType("[]projects.SkillRequirement")).Return(nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*projects.Project")).Return(nil)

	reqs := []SkillRequirementInput{{SkillTypeID: skillID, RequiredCount: 1, Importance: 5}}
	updated, err := service.UpdateProject(context.Background(), project.ID,
		UpdateProjectRequest{SkillRequirements: &reqs}, "founder-1")
	require.NoError(t, err)

	require.Len(t, updated.SkillRequirements, 1)
	assert.Equal(t, skillID, updated.SkillRequirements[0].SkillTypeID)
	repo.AssertExpectations(t)
}

func TestDeleteProjectRequiresFounder(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := &Project{ID: uuid.New(), FounderID: "founder-1", Status: StatusInProgress}
	repo.On("GetByID", mock.Anything, project.ID).Return(project, nil)

	err := service.DeleteProject(context.Background(), project.ID, "mallory")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	repo.AssertNotCalled(t, "DeleteCascade", mock.Anything, mock.Anything)
}

func TestDeleteProjectCascades(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	project := &Project{ID: uuid.New(), FounderID: "founder-1", Status: StatusInProgress}
	repo.On("GetByID", mock.Anything, project.ID).Return(project, nil)
	repo.On("DeleteCascade", mock.Anything, project.ID).Return(nil)

	require.NoError(t, service.DeleteProject(context.Background(), project.ID, "founder-1"))
	repo.AssertExpectations(t)
}

func TestGetProjectNotFound(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, nil)

	_, err := service.GetProject(context.Background(), id)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
