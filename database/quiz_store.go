package database

import (
	"context"

	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// QuizStore backs services.AttemptScorer with GORM.
type QuizStore struct {
	db *gorm.DB
}

func NewQuizStore(db *gorm.DB) *QuizStore {
	return &QuizStore{db: db}
}

func (s *QuizStore) Transaction(ctx context.Context, fn func(tx services.AttemptTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&quizTx{db: tx})
	})
}

type quizTx struct {
	db *gorm.DB
}

func (t *quizTx) GetQuiz(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := t.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NotFound("quiz")
		}
		return nil, err
	}
	return &quiz, nil
}

func (t *quizTx) GetQuestions(ctx context.Context, quizID uint) ([]models.Question, error) {
	return QuizQuestions(t.db.WithContext(ctx), quizID)
}

func (t *quizTx) CreateAttempt(ctx context.Context, attempt *models.Attempt) error {
	return t.db.WithContext(ctx).Create(attempt).Error
}

func (t *quizTx) AddAnswer(ctx context.Context, answer *models.Answer) error {
	return t.db.WithContext(ctx).Create(answer).Error
}

func (t *quizTx) FinishAttempt(ctx context.Context, attempt *models.Attempt) error {
	res := t.db.WithContext(ctx).Model(attempt).
		Select("score", "is_passed", "completed_at").
		Updates(attempt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.Errorf("attempt %d vanished before completion", attempt.ID)
	}
	return nil
}

// QuizQuestions loads the questions of a quiz in presentation order.
func QuizQuestions(db *gorm.DB, quizID uint) ([]models.Question, error) {
	var questions []models.Question
	err := db.Where("quiz_id = ?", quizID).Order("sort_order asc").Order("id asc").Find(&questions).Error
	return questions, err
}
