package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time `json:"createdAt"`
	Username     string    `json:"username" gorm:"size:50;not null;unique"`
	Email        string    `json:"email" gorm:"size:100;not null;unique"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	FullName     string    `json:"fullName" gorm:"size:100"`
	ProfileImage string    `json:"profileImage" gorm:"size:255"`
	IsAdmin      bool      `json:"isAdmin" gorm:"not null;default:false"`
	Photos       []Photo   `json:"-"`
}

// Session is the server-side record behind the opaque token carried in the
// session cookie. Username and IsAdmin are denormalized from the user row
// so access-control checks don't need a join.
type Session struct {
	Token     string    `gorm:"primarykey;size:64"`
	UserID    uint      `gorm:"index;not null"`
	Username  string    `gorm:"size:50;not null"`
	IsAdmin   bool      `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time

	User *User `gorm:"constraint:OnDelete:CASCADE;"`
}

type Photo struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time `json:"createdAt"`
	UserID       uint      `json:"userId" gorm:"index;not null"`
	User         *User     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Filename     string    `json:"filename" gorm:"size:255;not null;uniqueIndex"`
	OriginalName string    `json:"originalName" gorm:"size:255;not null"`
	Category     string    `json:"category" gorm:"size:50;not null"`
	Title        string    `json:"title" gorm:"size:255"`
	Description  string    `json:"description" gorm:"type:text"`
	FilePath     string    `json:"-" gorm:"size:500;not null"`
	FileSize     int64     `json:"fileSize"`
	IsPrivate    bool      `json:"isPrivate" gorm:"not null;default:false"`
}

// PhotoCategories is the fixed set of portfolio categories accepted on upload.
var PhotoCategories = []string{"portrait", "wedding", "event", "commercial", "other"}

func ValidCategory(c string) bool {
	for _, v := range PhotoCategories {
		if c == v {
			return true
		}
	}
	return false
}
