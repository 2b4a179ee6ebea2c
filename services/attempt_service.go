package services

import (
	"context"
	"time"

	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/sirupsen/logrus"
)

type QuizRepository interface {
	// GetQuiz returns ErrNotFound when no quiz has the id.
	GetQuiz(ctx context.Context, id uint) (*models.Quiz, error)
	// GetQuestions returns the quiz questions ordered by position, then id.
	GetQuestions(ctx context.Context, quizID uint) ([]models.Question, error)
}

type AttemptRepository interface {
	// CreateAttempt inserts the attempt and sets its ID before returning.
	CreateAttempt(ctx context.Context, attempt *models.Attempt) error
	AddAnswer(ctx context.Context, answer *models.Answer) error
	// FinishAttempt writes score, is_passed and completed_at.
	FinishAttempt(ctx context.Context, attempt *models.Attempt) error
}

type AttemptTx interface {
	QuizRepository
	AttemptRepository
}

type AttemptStore interface {
	// Transaction runs fn in one unit of work. A non-nil error from fn, or a
	// failed commit, leaves no trace of anything fn wrote.
	Transaction(ctx context.Context, fn func(tx AttemptTx) error) error
}

type AttemptResult struct {
	AttemptID    uint    `json:"attempt_id"`
	Score        float64 `json:"score"`
	IsPassed     bool    `json:"is_passed"`
	PassingScore float64 `json:"passing_score"`
}

type AttemptScorer struct {
	store AttemptStore
	now   func() time.Time
	log   *logrus.Logger
}

func NewAttemptScorer(store AttemptStore) *AttemptScorer {
	return &AttemptScorer{store: store, now: time.Now, log: utils.Log}
}

// SubmitAttempt grades answers against every question of the quiz and
// stores the attempt with one answer row per question. Each call records a
// new attempt. Questions missing from answers are graded as empty text.
func (s *AttemptScorer) SubmitAttempt(ctx context.Context, quizID uint, answers map[uint]string, userID uint) (AttemptResult, error) {
	var result AttemptResult

	err := s.store.Transaction(ctx, func(tx AttemptTx) error {
		quiz, err := tx.GetQuiz(ctx, quizID)
		if err != nil {
			return persistence("load quiz", err)
		}

		questions, err := tx.GetQuestions(ctx, quiz.ID)
		if err != nil {
			return persistence("load questions", err)
		}

		var maxPoints float64
		for _, q := range questions {
			maxPoints += q.Points
		}

		attempt := models.Attempt{
			UserID:    userID,
			QuizID:    quiz.ID,
			Score:     0,
			StartedAt: s.now().UTC(),
		}
		if err := tx.CreateAttempt(ctx, &attempt); err != nil {
			return persistence("create attempt", err)
		}

		var totalPoints float64
		for _, q := range questions {
			submitted := answers[q.ID]
			isCorrect, earned := GradeAnswer(submitted, q.CorrectAnswer, q.Points)

			answer := models.Answer{
				AttemptID:    attempt.ID,
				QuestionID:   q.ID,
				AnswerText:   submitted,
				IsCorrect:    isCorrect,
				PointsEarned: earned,
			}
			if err := tx.AddAnswer(ctx, &answer); err != nil {
				return persistence("add answer", err)
			}
			totalPoints += earned
		}

		completed := s.now().UTC()
		attempt.Score = ScaleScore(totalPoints, maxPoints)
		attempt.IsPassed = attempt.Score >= quiz.PassingScore
		attempt.CompletedAt = &completed
		if err := tx.FinishAttempt(ctx, &attempt); err != nil {
			return persistence("finish attempt", err)
		}

		result = AttemptResult{
			AttemptID:    attempt.ID,
			Score:        attempt.Score,
			IsPassed:     attempt.IsPassed,
			PassingScore: quiz.PassingScore,
		}
		return nil
	})
	if err != nil {
		err = persistence("commit attempt", err)
		s.log.WithFields(logrus.Fields{"quiz_id": quizID, "user_id": userID}).WithError(err).Warn("attempt not recorded")
		return AttemptResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"quiz_id":    quizID,
		"user_id":    userID,
		"attempt_id": result.AttemptID,
		"score":      result.Score,
		"is_passed":  result.IsPassed,
	}).Info("attempt scored")
	return result, nil
}
