package models

import (
	"strings"
	"time"
)

// Course is an entry of the course catalog
type Course struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name          string    `json:"name" gorm:"not null"`
	Hours         int       `json:"hours" gorm:"default:0"`
	ShortCode     string    `json:"short_code"`
	Syllabus      string    `json:"syllabus" gorm:"type:text"`
	TemplateFile  string    `json:"template_file"`
	ValidityYears int       `json:"validity_years" gorm:"default:0"` // 0 means the certificate never expires
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Code returns the trimmed short code, or fallback when none is set
func (c Course) Code(fallback string) string {
	if code := strings.TrimSpace(c.ShortCode); code != "" {
		return code
	}
	return fallback
}

// Template returns the template filename, or fallback when none is set
func (c Course) Template(fallback string) string {
	if tpl := strings.TrimSpace(c.TemplateFile); tpl != "" {
		return tpl
	}
	return fallback
}
