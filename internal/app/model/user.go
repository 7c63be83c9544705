package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	Base
	Email        string     `gorm:"uniqueIndex;not null;size:254" json:"email"` // login
	PasswordHash string     `gorm:"not null" json:"-"`                          // bcrypt
	FirstName    string     `gorm:"size:255" json:"first_name"`
	LastName     string     `gorm:"size:255" json:"last_name"`
	Address      string     `gorm:"size:255" json:"address"`
	PhoneNumber  string     `gorm:"size:255" json:"phone_number"`
	IsMerchant   bool       `gorm:"default:false" json:"is_merchant"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	AvatarID     *uuid.UUID `gorm:"type:uuid;index" json:"-"`
	CreatedAt    time.Time  `json:"date_created"`
	UpdatedAt    time.Time  `json:"date_modified"`

	Avatar *Image `gorm:"foreignKey:AvatarID;constraint:OnDelete:SET NULL" json:"avatar,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail trims the address and lower-cases its domain part
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
