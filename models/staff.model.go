package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// StaffUser is an office operator allowed to log in
type StaffUser struct {
	Username            string     `json:"username" gorm:"primaryKey;size:64"`
	PasswordHash        string     `json:"-" gorm:"not null"`
	Role                string     `json:"role" gorm:"default:'user'"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	BlockedUntil        *time.Time `json:"blocked_until,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}
