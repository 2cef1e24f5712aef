package users

import "time"

type VerificationToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Token     string `gorm:"not null;uniqueIndex"`
	Type      string `gorm:"type:varchar(30);not null;default:'email_verification'"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
