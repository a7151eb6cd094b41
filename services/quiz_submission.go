package services

import (
	"context"
	"time"

	"quranstudy/apperror"
	"quranstudy/models"
	"quranstudy/monitoring"

	"go.uber.org/zap"
)

type SubmittedAnswer struct {
	QuestionID     string `json:"questionId" binding:"required"`
	SelectedOption *int   `json:"selectedOption" binding:"required,min=0,max=3"`
}

type SubmitQuizRequest struct {
	QuizID    string            `json:"quizId" binding:"required"`
	Answers   []SubmittedAnswer `json:"answers" binding:"required,min=1,dive"`
	TimeSpent *int              `json:"timeSpent" binding:"omitempty,min=0,max=86400"` // seconds
}

type SubmissionResult struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	CorrectAnswers int    `json:"correctAnswers"`
	AttemptID      string `json:"attemptId"`
}

// GradeAnswers marks each submitted answer against the quiz's questions.
// Answers naming an unknown question are kept and marked incorrect.
func GradeAnswers(questions []models.Question, answers []SubmittedAnswer) ([]models.AnswerRecord, int) {
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	records := make([]models.AnswerRecord, 0, len(answers))
	score := 0
	for _, a := range answers {
		selected := -1
		if a.SelectedOption != nil {
			selected = *a.SelectedOption
		}
		q, ok := byID[a.QuestionID]
		correct := ok && q.CorrectAnswer == selected
		if correct {
			score++
		}
		records = append(records, models.AnswerRecord{
			QuestionID:     a.QuestionID,
			SelectedOption: selected,
			IsCorrect:      correct,
		})
	}
	return records, score
}

// Submit grades answers for quizID and appends the attempt.
func (s *QuizService) Submit(ctx context.Context, userID string, req SubmitQuizRequest) (*SubmissionResult, error) {
	if len(req.Answers) == 0 {
		return nil, apperror.BadRequest(`"answers" must contain at least 1 items`)
	}

	quiz, err := s.store.FindWithQuestions(ctx, req.QuizID)
	if err != nil {
		return nil, storeError(err)
	}

	records, score := GradeAnswers(quiz.Questions, req.Answers)

	timeSpent := 0
	if req.TimeSpent != nil {
		timeSpent = *req.TimeSpent
	}
	completedAt := time.Now().UTC()

	attempt := &models.Attempt{
		QuizID:      quiz.ID,
		UserID:      userID,
		StartedAt:   completedAt.Add(-time.Duration(timeSpent) * time.Second),
		CompletedAt: completedAt,
		Answers:     records,
		Score:       score,
		TimeSpent:   timeSpent,
	}
	if err := s.store.AppendAttempt(ctx, attempt); err != nil {
		return nil, storeError(err)
	}

	monitoring.QuizSubmissions.Inc()
	monitoring.QuizScoreRatio.Observe(float64(score) / float64(len(records)))
	// every cached list holding this quiz embeds its attempts
	participants, err := s.store.Participants(ctx, quiz.ID)
	if err != nil {
		s.logger.Warn("listing quiz participants failed", zap.String("quiz_id", quiz.ID), zap.Error(err))
	}
	s.invalidate(ctx, append([]string{quiz.CreatedBy, userID}, participants...)...)

	result := &SubmissionResult{
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		CorrectAnswers: score,
		AttemptID:      attempt.ID,
	}

	if s.notifier != nil {
		s.notifier.AttemptSubmitted(quiz.ID, AttemptEvent{
			AttemptID:      attempt.ID,
			User:           userID,
			Score:          score,
			TotalQuestions: result.TotalQuestions,
		})
	}

	s.logger.Info("quiz submitted",
		zap.String("quiz_id", quiz.ID),
		zap.String("user_id", userID),
		zap.Int("score", score),
		zap.Int("answers", len(records)),
	)
	return result, nil
}
