package repository

import (
	"context"
	"testing"

	"quranstudy/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would otherwise open its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Quiz{},
		&models.Question{},
		&models.Attempt{},
		&models.Surah{},
	))
	return db
}

func sampleQuiz(createdBy string, n int) *models.Quiz {
	quiz := &models.Quiz{
		Title:       "Al-Fatiha Quiz",
		Description: "A quiz about Al-Fatiha",
		Difficulty:  models.DifficultyMedium,
		Status:      models.QuizStatusActive,
		CreatedBy:   createdBy,
	}
	for i := 0; i < n; i++ {
		quiz.Questions = append(quiz.Questions, models.Question{
			Question:      "How many ayahs?",
			Options:       []string{"5", "6", "7", "8"},
			CorrectAnswer: 2,
		})
	}
	return quiz
}

var ctx = context.Background()
