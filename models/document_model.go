package models

import "time"

type Document struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CompanyID     uint      `gorm:"not null;index" json:"company_id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	FileURL       string    `gorm:"size:512;not null" json:"file_url"`
	FileType      string    `gorm:"size:20;not null" json:"file_type"`
	FileSize      int64     `gorm:"not null" json:"file_size"`
	MimeType      *string   `gorm:"size:100" json:"mime_type"`
	ExtractedText *string   `gorm:"type:text" json:"-"`
	IsProcessed   bool      `gorm:"default:false" json:"is_processed"`
	IsIndexed     bool      `gorm:"default:false" json:"is_indexed"`
	UploadedBy    uint      `gorm:"not null" json:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
