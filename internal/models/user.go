// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Graph relations are not embedded here;
// they live in the follows join table and are resolved through FollowRepository.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `gorm:"unique;not null" json:"username"`
	Email     string `gorm:"unique;not null" json:"email"`
	Mobile    string `gorm:"unique;not null" json:"mobile"`
	Password  string `gorm:"not null" json:"-"`
	Gender    string `json:"gender"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
	// OTP is the outstanding one-time code; 0 means no code is pending.
	OTP      int  `json:"-"`
	Verified bool `gorm:"not null;default:false" json:"verified"`
	Prime    bool `gorm:"not null;default:false" json:"prime"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
