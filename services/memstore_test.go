package services

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/anjiri1684/corporate_training/models"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory AttemptStore. Writes made inside a transaction
// are staged and only become visible when fn returns nil.
type memStore struct {
	mu        sync.Mutex
	quizzes   map[uint]models.Quiz
	questions map[uint][]models.Question
	attempts  map[uint]models.Attempt
	answers   []models.Answer
	nextID    uint

	failAnswerAt int // 1-based index of the AddAnswer call that fails, 0 for never
	failFinish   bool
	failCommit   bool
}

func newMemStore() *memStore {
	return &memStore{
		quizzes:   make(map[uint]models.Quiz),
		questions: make(map[uint][]models.Question),
		attempts:  make(map[uint]models.Attempt),
	}
}

func (m *memStore) addQuiz(q models.Quiz, questions ...models.Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	for i := range questions {
		questions[i].QuizID = q.ID
	}
	m.questions[q.ID] = questions
}

func (m *memStore) attemptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.attempts)
}

func (m *memStore) answersFor(attemptID uint) []models.Answer {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Answer
	for _, a := range m.answers {
		if a.AttemptID == attemptID {
			out = append(out, a)
		}
	}
	return out
}

func (m *memStore) Transaction(ctx context.Context, fn func(tx AttemptTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{store: m, attempts: make(map[uint]models.Attempt), nextID: m.nextID}
	if err := fn(tx); err != nil {
		return err
	}
	if m.failCommit {
		return errInjected
	}
	for id, a := range tx.attempts {
		m.attempts[id] = a
	}
	m.answers = append(m.answers, tx.answers...)
	m.nextID = tx.nextID
	return nil
}

type memTx struct {
	store       *memStore
	attempts    map[uint]models.Attempt
	answers     []models.Answer
	nextID      uint
	answerCalls int
}

func (tx *memTx) GetQuiz(ctx context.Context, id uint) (*models.Quiz, error) {
	q, ok := tx.store.quizzes[id]
	if !ok {
		return nil, NotFound("quiz")
	}
	return &q, nil
}

func (tx *memTx) GetQuestions(ctx context.Context, quizID uint) ([]models.Question, error) {
	qs := tx.store.questions[quizID]
	out := make([]models.Question, len(qs))
	copy(out, qs)
	return out, nil
}

func (tx *memTx) CreateAttempt(ctx context.Context, attempt *models.Attempt) error {
	tx.nextID++
	attempt.ID = tx.nextID
	tx.attempts[attempt.ID] = *attempt
	return nil
}

func (tx *memTx) AddAnswer(ctx context.Context, answer *models.Answer) error {
	tx.answerCalls++
	if tx.store.failAnswerAt > 0 && tx.answerCalls == tx.store.failAnswerAt {
		return errInjected
	}
	if _, ok := tx.attempts[answer.AttemptID]; !ok {
		return errors.New("answer references unknown attempt")
	}
	tx.nextID++
	answer.ID = tx.nextID
	tx.answers = append(tx.answers, *answer)
	return nil
}

func (tx *memTx) FinishAttempt(ctx context.Context, attempt *models.Attempt) error {
	if tx.store.failFinish {
		return errInjected
	}
	tx.attempts[attempt.ID] = *attempt
	return nil
}
