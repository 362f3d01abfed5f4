package users

import (
	"time"

	"gorm.io/datatypes"
)

// User is a profile keyed by the identity provider subject (Auth0-style).
// The core engine never authenticates; it trusts these identifiers.
type User struct {
	UserID           string         `gorm:"primaryKey;size:100" json:"user_id"`
	Email            string         `gorm:"not null;uniqueIndex" json:"email"`
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
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Participant is a user projection annotated with their approved role on
// a specific project.
type Participant struct {
	User
	ProjectName  string `json:"project_name"`
	ProjectSkill string `json:"project_skill"`
}
