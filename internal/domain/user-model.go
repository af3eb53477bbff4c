package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`
	FullName     string `json:"full_name"`
	Status       string `gorm:"type:varchar(20);not null;default:active" json:"status"`

	EmailVerifiedAt            *time.Time `json:"email_verified_at,omitempty"`
	VerificationToken          string     `json:"-"`
	VerificationTokenExpiresAt *time.Time `json:"-"`

	ResetTokenHash      string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	gorm.Model
}
