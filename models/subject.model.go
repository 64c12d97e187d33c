package models

import "time"

// Subject is a person known to the office: a trainee, an instructor or both
type Subject struct {
	FiscalCode   string     `json:"fiscal_code" gorm:"primaryKey;size:16"`
	Surname      string     `json:"surname" gorm:"not null;index"`
	GivenName    string     `json:"given_name" gorm:"not null;index"`
	DateOfBirth  *time.Time `json:"date_of_birth" gorm:"type:date"`
	BirthPlace   string     `json:"birth_place"`
	EntityID     *uint      `json:"entity_id" gorm:"index"`
	Entity       *Entity    `json:"entity,omitempty" gorm:"foreignKey:EntityID"`
	IsInstructor bool       `json:"is_instructor" gorm:"default:false"`
	Email        string     `json:"email"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DisplayName is the "Surname GivenName" form printed on certificates
func (s Subject) DisplayName() string {
	if s.GivenName == "" {
		return s.Surname
	}
	return s.Surname + " " + s.GivenName
}
