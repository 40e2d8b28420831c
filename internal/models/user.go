package models

import "time"

// User describes an account created on first successful passcode login.
// There is no stored password; possession of the email inbox is the
// credential.
type User struct {
	BaseModel

	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Name  string `json:"name"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"-"`

	Components []Component `gorm:"foreignKey:OwnerID" json:"-"`
}
