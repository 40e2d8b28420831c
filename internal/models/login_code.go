package models

import "time"

// LoginCode stores a single outstanding one-time passcode for an identifier.
// The identifier carries a unique index so issuing a new code replaces any
// prior one, and only the SHA-256 hash of the code is persisted. A row is
// deleted by the first verification attempt that finds it, whatever the
// outcome.
type LoginCode struct {
	BaseModel

	Identifier string    `gorm:"uniqueIndex;not null" json:"identifier"`
	CodeHash   string    `gorm:"not null" json:"-"`
	IssuedAt   time.Time `gorm:"not null" json:"issued_at"`
	ExpiresAt  time.Time `gorm:"index;not null" json:"expires_at"`
}
