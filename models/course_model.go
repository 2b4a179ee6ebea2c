package models

import "time"

type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CompanyID    uint      `gorm:"not null;index" json:"company_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  *string   `gorm:"type:text" json:"description"`
	InstructorID uint      `gorm:"not null;index" json:"instructor_id"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	Modules      []Module  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Module struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CourseID    uint            `gorm:"not null;index" json:"course_id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description *string         `gorm:"type:text" json:"description"`
	Order       int             `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
	Contents    []ModuleContent `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Quizzes     []Quiz          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

const (
	ContentText     = "text"
	ContentVideo    = "video"
	ContentDocument = "document"
	ContentLink     = "link"
)

type ModuleContent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ModuleID    uint      `gorm:"not null;index" json:"module_id"`
	ContentType string    `gorm:"size:20;not null" json:"content_type"`
	Content     *string   `gorm:"type:text" json:"content"`
	DocumentID  *uint     `json:"document_id"`
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

type Enrollment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID    uint       `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	Progress    float64    `gorm:"default:0" json:"progress"`
	CompletedAt *time.Time `json:"completed_at"`
	EnrolledAt  time.Time  `gorm:"autoCreateTime" json:"enrolled_at"`
}
