package models

import "time"

// Address is a shipping address of a user. At most one per user is the default.
type Address struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;type:varchar(36);not null"`
	FullName   string    `json:"full_name" form:"full_name" gorm:"type:varchar(200)" validate:"required,max=200"`
	Phone      string    `json:"phone" form:"phone" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	Line1      string    `json:"line1" form:"line1" gorm:"type:varchar(255)" validate:"required,max=255"`
	Line2      string    `json:"line2" form:"line2" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	City       string    `json:"city" form:"city" gorm:"type:varchar(120)" validate:"required,max=120"`
	Region     string    `json:"region" form:"region" gorm:"type:varchar(120)" validate:"omitempty,max=120"`
	PostalCode string    `json:"postal_code" form:"postal_code" gorm:"type:varchar(20)" validate:"omitempty,max=20"`
	Country    string    `json:"country" form:"country" gorm:"type:varchar(2);not null" validate:"omitempty,len=2"`
	IsDefault  bool      `json:"is_default" form:"is_default" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}
