package models

import "time"

type Certificate struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"user_id"`
	CourseID       uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"course_id"`
	CourseTitle    string    `gorm:"size:255;not null" json:"course_title"`
	CertificateURL string    `gorm:"size:512;not null" json:"certificate_url"`
	IssuedAt       time.Time `gorm:"not null" json:"issued_at"`
}
