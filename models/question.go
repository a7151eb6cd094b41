package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OptionsPerQuestion is the fixed number of choices every stored question carries.
const OptionsPerQuestion = 4

type Question struct {
	ID            string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	QuizID        string                      `json:"-" gorm:"type:varchar(36);not null;index"`
	Position      int                         `json:"-" gorm:"not null"`
	Question      string                      `json:"question" gorm:"not null"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"not null"`
	CorrectAnswer int                         `json:"correctAnswer" gorm:"not null"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
