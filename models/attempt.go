package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attempt is one graded submission against a quiz. Rows are insert-only.
type Attempt struct {
	ID          string                            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	QuizID      string                            `json:"-" gorm:"type:varchar(36);not null;index"`
	UserID      string                            `json:"user" gorm:"type:varchar(36);not null;index:idx_attempts_user_completed,priority:1"`
	StartedAt   time.Time                         `json:"startedAt" gorm:"not null"`
	CompletedAt time.Time                         `json:"completedAt" gorm:"not null;index:idx_attempts_user_completed,priority:2,sort:desc"`
	Answers     datatypes.JSONSlice[AnswerRecord] `json:"answers" gorm:"not null"`
	Score       int                               `json:"score" gorm:"not null"`
	TimeSpent   int                               `json:"timeSpent" gorm:"not null;default:0"` // seconds
}

type AnswerRecord struct {
	QuestionID     string `json:"questionId"`
	SelectedOption int    `json:"selectedOption"`
	IsCorrect      bool   `json:"isCorrect"`
}

func (Attempt) TableName() string {
	return "quiz_attempts"
}

func (a *Attempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
