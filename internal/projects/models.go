package projects

import (
	"time"

	"github.com/google/uuid"

	"neon/collab-portal/collab-portal-backend/pkg/workflows"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

type RecruitmentStatus string

const (
	RecruitmentOpen   RecruitmentStatus = "open"
	RecruitmentClosed RecruitmentStatus = "closed"
)

// EndTimeLayout is the wire format for project end times.
const EndTimeLayout = "2006-01-02 15:04:05"

// StatusMachine is monotonic: completed projects never reopen.
var StatusMachine = workflows.New(map[string][]string{
	string(StatusInProgress): {string(StatusCompleted)},
	string(StatusCompleted):  {},
})

// RecruitmentMachine allows founders to close and reopen recruitment freely.
var RecruitmentMachine = workflows.New(map[string][]string{
	string(RecruitmentOpen):   {string(RecruitmentClosed)},
	string(RecruitmentClosed): {string(RecruitmentOpen)},
})

// Project is a short-lived collaborative effort owned by its founder.
type Project struct {
	ID                uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string             `gorm:"not null" json:"name"`
	ProjectType       string             `gorm:"not null" json:"project_type"`
	EndTime           time.Time          `gorm:"not null" json:"end_time"`
	Description       string             `json:"description"`
	Goal              string             `json:"goal"`
	Status            Status             `gorm:"not null;default:'in_progress'" json:"status"`
	RecruitmentStatus RecruitmentStatus  `gorm:"not null;default:'open'" json:"recruitment_status"`
	FounderID         string             `gorm:"size:100;not null;index" json:"founder_id"`
	SkillRequirements []SkillRequirement `gorm:"foreignKey:ProjectID" json:"skill_requirements"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// SkillRequirement is a recruitment slot on a project. Position preserves
// the order the founder submitted the requirements in.
type SkillRequirement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID     uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	SkillTypeID   uuid.UUID `gorm:"type:uuid;not null" json:"skill_type_id"`
	RequiredCount int       `gorm:"not null" json:"required_count"`
	Importance    int       `gorm:"not null" json:"importance"` // 1-5
	Description   string    `json:"description"`
	Position      int       `gorm:"not null" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
