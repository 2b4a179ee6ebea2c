package models

import "time"

const (
	NotificationMessage    = "message"
	NotificationAssignment = "assignment"
	NotificationEvent      = "event"
	NotificationSystem     = "system"
)

type Notification struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	NotificationType string    `gorm:"size:20;not null" json:"notification_type"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Message          string    `gorm:"type:text;not null" json:"message"`
	IsRead           bool      `gorm:"default:false" json:"is_read"`
	Link             *string   `gorm:"size:255" json:"link"`
	CreatedAt        time.Time `json:"created_at"`
}
