package applications

import (
	"time"

	"github.com/google/uuid"

	"neon/collab-portal/collab-portal-backend/pkg/workflows"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// StatusMachine: pending resolves exactly once, then the record is frozen.
var StatusMachine = workflows.New(map[string][]string{
	string(StatusPending):  {string(StatusApproved), string(StatusRejected)},
	string(StatusApproved): {},
	string(StatusRejected): {},
})

// Application is a request to join a project for one skill slot.
// The set of approved applications defines the project's participants.
type Application struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID       uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	ApplicantID     string    `gorm:"size:100;not null;index" json:"applicant_id"`
	SkillTypeID     uuid.UUID `gorm:"type:uuid;not null" json:"skill_type_id"`
	Message         string    `json:"message"`
	Status          Status    `gorm:"not null;default:'pending'" json:"status"`
	ResponseMessage string    `json:"response_message"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
