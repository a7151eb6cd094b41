package services

import (
	"context"
	"errors"

	"quranstudy/apperror"
	"quranstudy/models"
	"quranstudy/repository"

	"go.uber.org/zap"
)

// QuizStore is the persistence the quiz services need.
type QuizStore interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	FindWithQuestions(ctx context.Context, id string) (*models.Quiz, error)
	FindForUser(ctx context.Context, userID string) ([]models.Quiz, error)
	AppendAttempt(ctx context.Context, attempt *models.Attempt) error
	Participants(ctx context.Context, quizID string) ([]string, error)
}

// AttemptNotifier is told about every stored attempt.
type AttemptNotifier interface {
	AttemptSubmitted(quizID string, event AttemptEvent)
}

type AttemptEvent struct {
	AttemptID      string `json:"attemptId"`
	User           string `json:"user"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
}

type QuizService struct {
	store     QuizStore
	generator TextGenerator
	cache     QuizCache
	notifier  AttemptNotifier
	logger    *zap.Logger
}

func NewQuizService(store QuizStore, generator TextGenerator, cache QuizCache, notifier AttemptNotifier, logger *zap.Logger) *QuizService {
	return &QuizService{
		store:     store,
		generator: generator,
		cache:     cache,
		notifier:  notifier,
		logger:    logger,
	}
}

// ListForUser returns quizzes the user created or attempted, newest first.
func (s *QuizService) ListForUser(ctx context.Context, userID string) ([]models.Quiz, error) {
	if quizzes, ok, err := s.cache.GetUserQuizzes(ctx, userID); err != nil {
		s.logger.Warn("quiz cache read failed", zap.String("user_id", userID), zap.Error(err))
	} else if ok {
		return quizzes, nil
	}

	quizzes, err := s.store.FindForUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if quizzes == nil {
		quizzes = []models.Quiz{}
	}

	if err := s.cache.SetUserQuizzes(ctx, userID, quizzes); err != nil {
		s.logger.Warn("quiz cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return quizzes, nil
}

func (s *QuizService) GetByID(ctx context.Context, quizID string) (*models.Quiz, error) {
	quiz, err := s.store.FindByID(ctx, quizID)
	if err != nil {
		return nil, storeError(err)
	}
	return quiz, nil
}

func (s *QuizService) invalidate(ctx context.Context, userIDs ...string) {
	userIDs = uniqueIDs(userIDs)
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		s.logger.Warn("quiz cache invalidation failed", zap.Strings("user_ids", userIDs), zap.Error(err))
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func storeError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Quiz not found")
	}
	return apperror.Internal(err)
}
