package deliverables

import (
	"time"

	"github.com/google/uuid"

	"neon/collab-portal/collab-portal-backend/pkg/workflows"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusReviewed  Status = "reviewed"
)

// StatusMachine: a reviewer may move a deliverable anywhere within the
// domain; the status write is an overwrite, not a guarded transition.
var StatusMachine = workflows.New(map[string][]string{
	string(StatusDraft):     {string(StatusSubmitted), string(StatusReviewed)},
	string(StatusSubmitted): {string(StatusDraft), string(StatusReviewed)},
	string(StatusReviewed):  {string(StatusDraft), string(StatusSubmitted)},
})

// Deliverable is a piece of project output: either an uploaded file
// (StorageKey locates the blob) or an external link.
type Deliverable struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	UploaderID string    `gorm:"size:100;not null" json:"uploader_id"`
	FileType   string    `json:"file_type"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	StorageKey string    `json:"-"`
	LinkURL    string    `json:"link_url"`
	Status     Status    `gorm:"not null;default:'draft'" json:"status"`
	ReviewerID string    `gorm:"size:100" json:"reviewer_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Confirmation records that a participant has accepted a reviewed
// deliverable. At most one row exists per (deliverable, user).
type Confirmation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID     uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	DeliverableID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_confirmation_deliverable_user" json:"deliverable_id"`
	UserID        string    `gorm:"size:100;not null;uniqueIndex:idx_confirmation_deliverable_user" json:"user_id"`
	Confirmed     bool      `gorm:"not null" json:"confirmed"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// ProjectConfirmStatus summarises one user's confirmation progress over a
// project's reviewed deliverables.
type ProjectConfirmStatus struct {
	AllConfirmed   bool `json:"all_confirmed"`
	Total          int  `json:"total"`
	ConfirmedCount int  `json:"confirmed_count"`
}
