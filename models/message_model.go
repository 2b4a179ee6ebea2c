package models

import "time"

type ChatMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID *uint     `gorm:"index" json:"receiver_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChatLog records one question asked to the assistant and the answer returned.
type ChatLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	CompanyID  *uint     `gorm:"index" json:"company_id"`
	Query      string    `gorm:"type:text;not null" json:"query"`
	Response   string    `gorm:"type:text;not null" json:"response"`
	Sources    string    `gorm:"type:text" json:"-"`
	ModelUsed  *string   `gorm:"size:50" json:"model_used"`
	TokensUsed *int      `json:"tokens_used"`
	CreatedAt  time.Time `json:"created_at"`
}
