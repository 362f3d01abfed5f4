package projects

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"neon/collab-portal/collab-portal-backend/internal/apperr"
)

// stubService returns canned results so the handler's status mapping
// can be asserted without a repository.
type stubService struct {
	project *Project
	list    []Project
	err     error
}

func (s *stubService) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	return s.project, s.err
}

func (s *stubService) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.project, s.err
}

func (s *stubService) UpdateProject(ctx context.Context, id uuid.UUID, req UpdateProjectRequest, actor string) (*Project, error) {
	return s.project, s.err
}

func (s *stubService) DeleteProject(ctx context.Context, id uuid.UUID, actor string) error {
	return s.err
}

func (s *stubService) ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	return s.list, s.err
}

func newTestRouter(service Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(service).RegisterRoutes(router.Group("/api"))
	return router
}

func TestHandlerErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperr.New(apperr.KindNotFound, "project not found"), http.StatusNotFound},
		{"unauthorized", apperr.New(apperr.KindUnauthorized, "only the founder may update the project"), http.StatusForbidden},
		{"invalid state", apperr.New(apperr.KindInvalidState, "cannot move project from completed to in_progress"), http.StatusConflict},
		{"invalid argument", apperr.New(apperr.KindInvalidArgument, "end_time is malformed"), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubService{err: tc.err})

			req := httptest.NewRequest(http.MethodPut, "/api/projects/"+uuid.NewString(),
				strings.NewReader(`{"name":"x","user_id":"founder-1"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestHandlerRejectsMalformedID(t *testing.T) {
	router := newTestRouter(&stubService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerGetProject(t *testing.T) {
	project := &Project{ID: uuid.New(), Name: "Weather Dashboard", Status: StatusInProgress}
	router := newTestRouter(&stubService{project: project})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects/"+project.ID.String(), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Weather Dashboard")
}

func TestHandlerRejectsBadSkillTypeFilter(t *testing.T) {
	router := newTestRouter(&stubService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects?skill_type_ids=nope", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
