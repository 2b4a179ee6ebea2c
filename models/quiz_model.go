package models

import "time"

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionText           = "text"
)

type Quiz struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ModuleID       uint       `gorm:"not null;index" json:"module_id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    *string    `gorm:"type:text" json:"description"`
	PassingScore   float64    `gorm:"not null" json:"passing_score"`
	TotalQuestions int        `gorm:"default:20" json:"total_questions"`
	IsActive       bool       `gorm:"not null" json:"is_active"`
	Questions      []Question `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuizID        uint      `gorm:"not null;index" json:"quiz_id"`
	QuestionText  string    `gorm:"type:text;not null" json:"question_text"`
	QuestionType  string    `gorm:"size:50;not null;default:'multiple_choice'" json:"question_type"`
	CorrectAnswer string    `gorm:"type:text;not null" json:"correct_answer"`
	Options       *string   `gorm:"type:text" json:"options"`
	Points        float64   `gorm:"not null" json:"points"`
	Order         int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt     time.Time `json:"created_at"`
}

type Attempt struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	QuizID      uint       `gorm:"not null;index" json:"quiz_id"`
	Score       float64    `gorm:"not null" json:"score"`
	IsPassed    bool       `gorm:"not null;default:false" json:"is_passed"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Answers     []Answer   `gorm:"constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

type Answer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AttemptID    uint      `gorm:"not null;index" json:"attempt_id"`
	QuestionID   uint      `gorm:"not null;index" json:"question_id"`
	AnswerText   string    `gorm:"type:text;not null" json:"answer_text"`
	IsCorrect    bool      `gorm:"not null;default:false" json:"is_correct"`
	PointsEarned float64   `gorm:"not null;default:0" json:"points_earned"`
	CreatedAt    time.Time `json:"created_at"`
}
