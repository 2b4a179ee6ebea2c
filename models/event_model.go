package models

import "time"

const (
	EventTraining = "training"
	EventMeeting  = "meeting"
	EventExam     = "exam"
	EventDeadline = "deadline"
)

type Event struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CompanyID    uint      `gorm:"not null;index" json:"company_id"`
	UserID       uint      `gorm:"not null" json:"user_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  *string   `gorm:"type:text" json:"description"`
	EventType    string    `gorm:"size:20;not null" json:"event_type"`
	StartTime    time.Time `gorm:"not null;index" json:"start_time"`
	EndTime      time.Time `gorm:"not null" json:"end_time"`
	Location     *string   `gorm:"size:255" json:"location"`
	IsAllDay     bool      `gorm:"default:false" json:"is_all_day"`
	ReminderSent bool      `gorm:"default:false" json:"reminder_sent"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
