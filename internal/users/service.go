package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"neon/collab-portal/collab-portal-backend/internal/apperr"
)

type CreateUserRequest struct {
	UserID           string         `json:"user_id"`
	Email            string         `json:"email"`
	FullName         string         `json:"full_name"`
	Gender           string         `json:"gender"`
	MBTI             string         `json:"mbti"`
	StarSign         string         `json:"star_sign"`
	Skills           string         `json:"skills"`
	Interests        string         `json:"interests"`
	YearOfStudy      string         `json:"year_of_study"`
	Major            string         `json:"major"`
	Picture          string         `json:"picture"`
	KeyFactors       datatypes.JSON `json:"key_factors"`
	LightningAnswers datatypes.JSON `json:"lightning_answers"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if req.Email == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "email is required")
	}
	if req.UserID == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "user_id is required")
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Internal("lookup user", err)
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.KindConflict, "email %s is already registered", req.Email)
	}

	user := &User{
		UserID:           req.UserID,
		Email:            req.Email,
		FullName:         req.FullName,
		Gender:           req.Gender,
		MBTI:             req.MBTI,
		StarSign:         req.StarSign,
		Skills:           req.Skills,
		Interests:        req.Interests,
		YearOfStudy:      req.YearOfStudy,
		Major:            req.Major,
		Picture:          req.Picture,
		KeyFactors:       req.KeyFactors,
		LightningAnswers: req.LightningAnswers,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperr.Internal("create user", err)
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("lookup user", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, filter UserFilter) ([]User, error) {
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("list users", err)
	}
	return result, nil
}

// ListParticipants lists users holding an approved application on the
// project, annotated with the project name and the skill they joined for.
func (s *Service) ListParticipants(ctx context.Context, projectID uuid.UUID, filter UserFilter) ([]Participant, error) {
	result, err := s.repo.ListParticipants(ctx, projectID, filter)
	if err != nil {
		return nil, apperr.Internal("list participants", err)
	}
	return result, nil
}
