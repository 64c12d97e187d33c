package models

import "time"

// Entity is a company or organisation that sends trainees
type Entity struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Description string    `json:"description" gorm:"not null"`
	VatNumber   string    `json:"vat_number"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
