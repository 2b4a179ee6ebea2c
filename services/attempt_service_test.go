package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anjiri1684/corporate_training/models"
)

func newTestScorer(store AttemptStore) *AttemptScorer {
	s := NewAttemptScorer(store)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s
}

func capitalsQuiz() (models.Quiz, []models.Question) {
	quiz := models.Quiz{ID: 7, ModuleID: 1, Title: "Capitals", PassingScore: 18}
	questions := []models.Question{
		{ID: 1, QuestionText: "Capital of France?", CorrectAnswer: "Paris", Points: 1},
		{ID: 2, QuestionText: "Capital of Spain?", CorrectAnswer: "Madrid", Points: 1},
		{ID: 3, QuestionText: "Capital of Italy?", CorrectAnswer: "Rome", Points: 2},
	}
	return quiz, questions
}

func TestSubmitAttemptAllCorrect(t *testing.T) {
	store := newMemStore()
	quiz, questions := capitalsQuiz()
	store.addQuiz(quiz, questions...)

	res, err := newTestScorer(store).SubmitAttempt(context.Background(), quiz.ID, map[uint]string{
		1: "paris",
		2: "  MADRID ",
		3: "Rome",
	}, 42)
	require.NoError(t, err)

	assert.Equal(t, 20.0, res.Score)
	assert.True(t, res.IsPassed)
	assert.Equal(t, 18.0, res.PassingScore)
	assert.NotZero(t, res.AttemptID)

	answers := store.answersFor(res.AttemptID)
	require.Len(t, answers, 3)
	for _, a := range answers {
		assert.True(t, a.IsCorrect)
	}

	attempt := store.attempts[res.AttemptID]
	assert.Equal(t, uint(42), attempt.UserID)
	assert.Equal(t, quiz.ID, attempt.QuizID)
	require.NotNil(t, attempt.CompletedAt)
	assert.Equal(t, 20.0, attempt.Score)
}

func TestSubmitAttemptAllWrong(t *testing.T) {
	store := newMemStore()
	quiz, questions := capitalsQuiz()
	store.addQuiz(quiz, questions...)

	res, err := newTestScorer(store).SubmitAttempt(context.Background(), quiz.ID, map[uint]string{
		1: "Lyon",
		2: "Barcelona",
		3: "Milan",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.False(t, res.IsPassed)

	for _, a := range store.answersFor(res.AttemptID) {
		assert.False(t, a.IsCorrect)
		assert.Equal(t, 0.0, a.PointsEarned)
	}
}

func TestSubmitAttemptPartialCredit(t *testing.T) {
	tests := []struct {
		name    string
		answers map[uint]string
		want    float64
	}{
		{"light question right", map[uint]string{1: "yes", 2: "wrong"}, 5.0},
		{"heavy question right", map[uint]string{1: "wrong", 2: "yes"}, 15.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.addQuiz(models.Quiz{ID: 1, PassingScore: 18},
				models.Question{ID: 1, CorrectAnswer: "yes", Points: 1},
				models.Question{ID: 2, CorrectAnswer: "yes", Points: 3},
			)

			res, err := newTestScorer(store).SubmitAttempt(context.Background(), 1, tt.answers, 1)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.Score, 1e-9)
			assert.False(t, res.IsPassed)
		})
	}
}

func TestSubmitAttemptNoQuestions(t *testing.T) {
	store := newMemStore()
	store.addQuiz(models.Quiz{ID: 3, PassingScore: 0})

	res, err := newTestScorer(store).SubmitAttempt(context.Background(), 3, map[uint]string{1: "x"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.Empty(t, store.answersFor(res.AttemptID))
	assert.Equal(t, 1, store.attemptCount())
}

func TestSubmitAttemptZeroPointQuestionsNeverPass(t *testing.T) {
	store := newMemStore()
	store.addQuiz(models.Quiz{ID: 3, PassingScore: 18},
		models.Question{ID: 1, CorrectAnswer: "a", Points: 0},
	)

	res, err := newTestScorer(store).SubmitAttempt(context.Background(), 3, map[uint]string{1: "a"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.False(t, res.IsPassed)

	answers := store.answersFor(res.AttemptID)
	require.Len(t, answers, 1)
	assert.True(t, answers[0].IsCorrect)
}

func TestSubmitAttemptMissingAnswersGradedEmpty(t *testing.T) {
	store := newMemStore()
	store.addQuiz(models.Quiz{ID: 9, PassingScore: 18},
		models.Question{ID: 1, CorrectAnswer: "Paris", Points: 1},
		models.Question{ID: 2, CorrectAnswer: "", Points: 1},
		models.Question{ID: 3, CorrectAnswer: "Rome", Points: 1},
	)

	res, err := newTestScorer(store).SubmitAttempt(context.Background(), 9, map[uint]string{
		1:  "Paris",
		99: "not a question of this quiz",
	}, 1)
	require.NoError(t, err)

	answers := store.answersFor(res.AttemptID)
	require.Len(t, answers, 3)
	assert.Equal(t, []uint{1, 2, 3}, []uint{answers[0].QuestionID, answers[1].QuestionID, answers[2].QuestionID})
	assert.True(t, answers[0].IsCorrect)
	assert.Equal(t, "", answers[1].AnswerText)
	assert.True(t, answers[1].IsCorrect, "empty submission matches an empty correct answer")
	assert.Equal(t, "", answers[2].AnswerText)
	assert.False(t, answers[2].IsCorrect)
	assert.InDelta(t, 2.0/3.0*20, res.Score, 1e-9)
}

func TestSubmitAttemptKeepsRawAnswerText(t *testing.T) {
	store := newMemStore()
	store.addQuiz(models.Quiz{ID: 1, PassingScore: 18}, models.Question{ID: 1, CorrectAnswer: "Paris", Points: 1})

	res, err := newTestScorer(store).SubmitAttempt(context.Background(), 1, map[uint]string{1: "  paris  "}, 1)
	require.NoError(t, err)

	answers := store.answersFor(res.AttemptID)
	require.Len(t, answers, 1)
	assert.Equal(t, "  paris  ", answers[0].AnswerText)
	assert.True(t, answers[0].IsCorrect)
	assert.Equal(t, 1.0, answers[0].PointsEarned)
}

func TestSubmitAttemptPassingThreshold(t *testing.T) {
	store := newMemStore()
	questions := make([]models.Question, 10)
	for i := range questions {
		questions[i] = models.Question{ID: uint(i + 1), CorrectAnswer: "ok", Points: 1}
	}
	store.addQuiz(models.Quiz{ID: 1, PassingScore: 18}, questions...)
	scorer := newTestScorer(store)

	nine := map[uint]string{}
	for i := 1; i <= 9; i++ {
		nine[uint(i)] = "ok"
	}
	res, err := scorer.SubmitAttempt(context.Background(), 1, nine, 1)
	require.NoError(t, err)
	assert.InDelta(t, 18.0, res.Score, 1e-9)
	assert.True(t, res.IsPassed, "score equal to passing score passes")

	delete(nine, 9)
	res, err = scorer.SubmitAttempt(context.Background(), 1, nine, 1)
	require.NoError(t, err)
	assert.InDelta(t, 16.0, res.Score, 1e-9)
	assert.False(t, res.IsPassed)
}

func TestSubmitAttemptQuizNotFound(t *testing.T) {
	store := newMemStore()

	_, err := newTestScorer(store).SubmitAttempt(context.Background(), 404, nil, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsPersistence(err))
	assert.Zero(t, store.attemptCount())
}

func TestSubmitAttemptTwiceCreatesTwoAttempts(t *testing.T) {
	store := newMemStore()
	quiz, questions := capitalsQuiz()
	store.addQuiz(quiz, questions...)
	scorer := newTestScorer(store)
	answers := map[uint]string{1: "Paris", 2: "Lisbon", 3: "Rome"}

	first, err := scorer.SubmitAttempt(context.Background(), quiz.ID, answers, 5)
	require.NoError(t, err)
	second, err := scorer.SubmitAttempt(context.Background(), quiz.ID, answers, 5)
	require.NoError(t, err)

	assert.NotEqual(t, first.AttemptID, second.AttemptID)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, 15.0, first.Score)
	assert.Equal(t, 2, store.attemptCount())
	assert.Len(t, store.answersFor(first.AttemptID), 3)
	assert.Len(t, store.answersFor(second.AttemptID), 3)
}

func TestSubmitAttemptRollsBack(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*memStore)
	}{
		{"second answer fails", func(m *memStore) { m.failAnswerAt = 2 }},
		{"last answer fails", func(m *memStore) { m.failAnswerAt = 3 }},
		{"finish fails", func(m *memStore) { m.failFinish = true }},
		{"commit fails", func(m *memStore) { m.failCommit = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			quiz, questions := capitalsQuiz()
			store.addQuiz(quiz, questions...)
			tt.setup(store)

			res, err := newTestScorer(store).SubmitAttempt(context.Background(), quiz.ID, map[uint]string{1: "Paris"}, 1)
			require.Error(t, err)
			assert.True(t, IsPersistence(err))
			assert.ErrorIs(t, err, errInjected)
			assert.Equal(t, AttemptResult{}, res)
			assert.Zero(t, store.attemptCount())
			assert.Empty(t, store.answers)
		})
	}
}
