package domain

import (
	"time"

	"gorm.io/gorm"
)

// Profile holds the citizen-facing identity details completed after
// registration. One row per user; only the owning user may write it.
type Profile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	FullName    string     `gorm:"not null" json:"full_name"`
	Email       string     `gorm:"not null" json:"email"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	AgeRange    *string    `gorm:"type:varchar(20)" json:"age_range,omitempty"`

	NationalIDType   *string `gorm:"type:varchar(50)" json:"national_id_type,omitempty"`
	NationalIDNumber *string `gorm:"type:varchar(50)" json:"national_id_number,omitempty"`

	// Residents supply state/LGA, diaspora applicants supply a country.
	Country    *string `gorm:"type:varchar(100)" json:"country,omitempty"`
	State      *string `gorm:"type:varchar(100)" json:"state,omitempty"`
	LGA        *string `gorm:"type:varchar(100)" json:"lga,omitempty"`
	Address    *string `gorm:"type:text" json:"address,omitempty"`
	IsDiaspora bool    `gorm:"default:false" json:"is_diaspora"`

	ProfilePictureURL *string `gorm:"type:text" json:"profile_picture_url,omitempty"`

	gorm.Model
}
