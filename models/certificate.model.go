package models

import "time"

// CertificateRecord is one issued certificate: a trainee attended a course on a given day
type CertificateRecord struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	FiscalCode        string     `json:"fiscal_code" gorm:"size:16;not null;index"`
	CourseID          uint       `json:"course_id" gorm:"not null;index:idx_course_performed"`
	PerformedDate     time.Time  `json:"performed_date" gorm:"type:date;not null;index:idx_course_performed"`
	ExpiresOn         *time.Time `json:"expires_on" gorm:"type:date;index"`
	RenewalNoticeSent bool       `json:"renewal_notice_sent" gorm:"default:false"`
	CreatedAt         time.Time  `json:"created_at" gorm:"index"`

	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:FiscalCode;references:FiscalCode"`
	Course  *Course  `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
