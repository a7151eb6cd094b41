package services

import (
	"context"
	"errors"
	"fmt"

	"quranstudy/apperror"
	"quranstudy/models"
	"quranstudy/monitoring"

	"go.uber.org/zap"
)

const (
	DefaultQuestionCount = 15
	MaxQuestionCount     = 20
)

type GenerateQuizRequest struct {
	Topic        string `form:"topic" json:"topic" binding:"required,min=3,max=200"`
	// NumQuestions is nil when the client omits it; an explicit 0 is out of range.
	NumQuestions *int   `form:"numQuestions" json:"numQuestions" binding:"omitempty,min=1,max=20"`
}

const quizPromptTemplate = `Generate a quiz about %s with %d multiple choice questions.
Each question should be formatted exactly as follows:

1. [Question text]
A) [Option 1]
B) [Option 2]
C) [Option 3]
D) [Option 4]
Answer: [Correct option letter A, B, C, or D]

Requirements:
- Each question must have exactly 4 options
- The correct answer must be one of A, B, C, or D
- Questions should be clear and well-formatted
- Include a blank line between questions
- Make sure each question is numbered sequentially`

func buildQuizPrompt(topic string, numQuestions int) string {
	return fmt.Sprintf(quizPromptTemplate, topic, numQuestions)
}

// Generate asks the text generator for a quiz on topic, parses it and stores it for userID.
// The generator is called once; its failures are reported, never retried.
func (s *QuizService) Generate(ctx context.Context, userID string, req GenerateQuizRequest) (*models.Quiz, error) {
	numQuestions := DefaultQuestionCount
	if req.NumQuestions != nil {
		numQuestions = *req.NumQuestions
	}
	if numQuestions < 1 || numQuestions > MaxQuestionCount {
		return nil, apperror.BadRequest("Number of questions must be between 1 and 20")
	}
	if req.Topic == "" {
		return nil, apperror.BadRequest(`"topic" is required`)
	}

	text, err := s.generator.Generate(ctx, buildQuizPrompt(req.Topic, numQuestions))
	if err != nil {
		monitoring.QuizGenerationFailures.WithLabelValues(upstreamReason(err)).Inc()
		return nil, apperror.BadGateway("Failed to generate quiz content", err)
	}

	questions, err := ParseQuiz(text)
	if err != nil {
		monitoring.QuizGenerationFailures.WithLabelValues("unparseable").Inc()
		s.logger.Warn("generated quiz text was unusable", zap.String("topic", req.Topic), zap.Int("length", len(text)))
		return nil, apperror.Unprocessable("No valid questions could be parsed from the response", err)
	}

	quiz := &models.Quiz{
		Title:       req.Topic + " Quiz",
		Description: fmt.Sprintf("A quiz about %s with %d questions", req.Topic, len(questions)),
		Difficulty:  models.DifficultyMedium,
		Status:      models.QuizStatusActive,
		CreatedBy:   userID,
		Questions:   questions,
		Attempts:    []models.Attempt{},
	}
	if err := s.store.Create(ctx, quiz); err != nil {
		monitoring.QuizGenerationFailures.WithLabelValues("store").Inc()
		return nil, apperror.Internal(err)
	}

	monitoring.QuizzesGenerated.Inc()
	s.invalidate(ctx, userID)
	s.logger.Info("quiz generated",
		zap.String("quiz_id", quiz.ID),
		zap.String("user_id", userID),
		zap.Int("questions", len(questions)),
	)
	return quiz, nil
}

func upstreamReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return "timeout"
	case errors.Is(err, ErrEmptyCompletion):
		return "empty"
	default:
		return "upstream"
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
