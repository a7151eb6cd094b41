package repository

import (
	"context"
	"time"

	"quranstudy/models"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("questions.position")
}

func orderedAttempts(db *gorm.DB) *gorm.DB {
	return db.Order("quiz_attempts.completed_at, quiz_attempts.id")
}

// Create stores the quiz and its questions in one transaction. Question order is kept in Position.
func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	for i := range quiz.Questions {
		quiz.Questions[i].Position = i
	}
	return r.DB.WithContext(ctx).Create(quiz).Error
}

// FindByID loads a quiz with its questions and attempts.
func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Preload("Attempts", orderedAttempts).
		Where("id = ?", id).
		First(&quiz).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &quiz, nil
}

// FindWithQuestions loads a quiz and its questions only.
func (r *QuizRepository) FindWithQuestions(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Where("id = ?", id).
		First(&quiz).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &quiz, nil
}

// FindForUser returns quizzes created by userID or attempted by userID, newest first.
func (r *QuizRepository) FindForUser(ctx context.Context, userID string) ([]models.Quiz, error) {
	db := r.DB.WithContext(ctx)
	attempted := db.Model(&models.Attempt{}).Select("quiz_id").Where("user_id = ?", userID)

	var quizzes []models.Quiz
	err := db.
		Preload("Questions", orderedQuestions).
		Preload("Attempts", orderedAttempts).
		Where("created_by = ? OR id IN (?)", userID, attempted).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// AppendAttempt inserts one attempt row and bumps the quiz's updated_at.
// Concurrent submissions never read or rewrite each other's attempts.
func (r *QuizRepository) AppendAttempt(ctx context.Context, attempt *models.Attempt) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Quiz{}).
			Where("id = ?", attempt.QuizID).
			UpdateColumn("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(attempt).Error
	})
}

// Participants lists the distinct users with an attempt on quizID.
func (r *QuizRepository) Participants(ctx context.Context, quizID string) ([]string, error) {
	var userIDs []string
	err := r.DB.WithContext(ctx).
		Model(&models.Attempt{}).
		Where("quiz_id = ?", quizID).
		Distinct().
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}
