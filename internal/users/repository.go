package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserFilter enumerates the optional predicates for listing users.
type UserFilter struct {
	Email    string
	FullName string
	Gender   string
	MBTI     string
	StarSign string
	Major    string
	UserID   string
}

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]User, error)
	ListParticipants(ctx context.Context, projectID uuid.UUID, filter UserFilter) ([]Participant, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormRepository) GetByID(ctx context.Context, userID string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func applyFilter(q *gorm.DB, filter UserFilter) *gorm.DB {
	if filter.Email != "" {
		q = q.Where("users.email LIKE ?", "%"+filter.Email+"%")
	}
	if filter.FullName != "" {
		q = q.Where("users.full_name LIKE ?", "%"+filter.FullName+"%")
	}
	if filter.Gender != "" {
		q = q.Where("users.gender = ?", filter.Gender)
	}
	if filter.MBTI != "" {
		q = q.Where("users.mbti = ?", filter.MBTI)
	}
	if filter.StarSign != "" {
		q = q.Where("users.star_sign = ?", filter.StarSign)
	}
	if filter.Major != "" {
		q = q.Where("users.major LIKE ?", "%"+filter.Major+"%")
	}
	if filter.UserID != "" {
		q = q.Where("users.user_id = ?", filter.UserID)
	}
	return q
}

func (r *gormRepository) List(ctx context.Context, filter UserFilter) ([]User, error) {
	var result []User
	q := applyFilter(r.db.WithContext(ctx).Model(&User{}), filter)
	err := q.Find(&result).Error
	return result, err
}

func (r *gormRepository) ListParticipants(ctx context.Context, projectID uuid.UUID, filter UserFilter) ([]Participant, error) {
	// Approved applications decide membership; the user rows are then
	// annotated with the project name and the skill each member joined for.
	var approvals []struct {
		ApplicantID string
		SkillTypeID uuid.UUID
	}
	err := r.db.WithContext(ctx).
		Table("applications").
		Select("applicant_id, skill_type_id").
		Where("project_id = ? AND status = ?", projectID, "approved").
		Scan(&approvals).Error
	if err != nil {
		return nil, err
	}
	if len(approvals) == 0 {
		return []Participant{}, nil
	}

	skillByUser := make(map[string]uuid.UUID, len(approvals))
	memberIDs := make([]string, 0, len(approvals))
	for _, a := range approvals {
		if _, seen := skillByUser[a.ApplicantID]; !seen {
			memberIDs = append(memberIDs, a.ApplicantID)
		}
		skillByUser[a.ApplicantID] = a.SkillTypeID
	}

	var members []User
	q := applyFilter(r.db.WithContext(ctx).Model(&User{}), filter)
	if err := q.Where("users.user_id IN ?", memberIDs).Find(&members).Error; err != nil {
		return nil, err
	}

	var projectName string
	if err := r.db.WithContext(ctx).
		Table("projects").Select("name").Where("id = ?", projectID).
		Scan(&projectName).Error; err != nil {
		return nil, err
	}

	var skillTypes []struct {
		ID   uuid.UUID
		Name string
	}
	if err := r.db.WithContext(ctx).
		Table("skill_types").Select("id, name").
		Scan(&skillTypes).Error; err != nil {
		return nil, err
	}
	skillNames := make(map[uuid.UUID]string, len(skillTypes))
	for _, st := range skillTypes {
		skillNames[st.ID] = st.Name
	}

	participants := make([]Participant, 0, len(members))
	for _, member := range members {
		participants = append(participants, Participant{
			User:         member,
			ProjectName:  projectName,
			ProjectSkill: skillNames[skillByUser[member.UserID]],
		})
	}
	return participants, nil
}
