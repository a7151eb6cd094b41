package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type QuizStatus string

const (
	QuizStatusActive   QuizStatus = "active"
	QuizStatusInactive QuizStatus = "inactive"
	QuizStatusArchived QuizStatus = "archived"
)

type Quiz struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string     `json:"title" gorm:"not null;index"`
	Description string     `json:"description" gorm:"not null"`
	Difficulty  Difficulty `json:"difficulty" gorm:"type:varchar(16);not null;default:'medium';index"`
	Status      QuizStatus `json:"status" gorm:"type:varchar(16);not null;default:'active';index"`
	CreatedBy   string     `json:"createdBy" gorm:"type:varchar(36);not null;index"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Relationships
	Questions []Question `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Attempts  []Attempt  `json:"attempts" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
