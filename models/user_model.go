package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Role           Role      `gorm:"size:20;not null;default:'student'" json:"role"`
	CompanyID      *uint     `gorm:"index" json:"company_id"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	IsVerified     bool      `gorm:"default:false" json:"is_verified"`
	Profile        *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Profile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	FirstName  string    `gorm:"size:100;not null" json:"first_name"`
	LastName   string    `gorm:"size:100;not null" json:"last_name"`
	Phone      *string   `gorm:"size:50" json:"phone"`
	Position   *string   `gorm:"size:100" json:"position"`
	Department *string   `gorm:"size:100" json:"department"`
	AvatarURL  *string   `gorm:"size:255" json:"avatar_url"`
	Bio        *string   `gorm:"type:text" json:"bio"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
