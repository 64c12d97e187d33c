package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jinzhu/now"
	"gorm.io/gorm"

	"worksafe/certificates"
	"worksafe/models"
)

// HistoryRepository stores issued certificates in the certificate_records table
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// CountDistinctDates counts the distinct days the course was held in month/year before the given day
func (r *HistoryRepository) CountDistinctDates(ctx context.Context, courseID uint, month time.Month, year int, before time.Time) (int, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	upper := now.With(monthStart).EndOfMonth()
	if before.Before(upper) {
		upper = before
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CertificateRecord{}).
		Where("course_id = ? AND performed_date >= ? AND performed_date < ?", courseID, monthStart, upper).
		Distinct("performed_date").
		Count(&count).Error
	return int(count), err
}

// Insert records a certificate. ExpiresOn is derived from the course validity, if any.
func (r *HistoryRepository) Insert(ctx context.Context, fiscalCode string, courseID uint, performed time.Time) error {
	record := models.CertificateRecord{
		FiscalCode:    fiscalCode,
		CourseID:      courseID,
		PerformedDate: certificates.Civil(performed),
	}

	var course models.Course
	err := r.db.WithContext(ctx).Select("id", "validity_years").First(&course, courseID).Error
	switch {
	case err == nil:
		if course.ValidityYears > 0 {
			expires := record.PerformedDate.AddDate(course.ValidityYears, 0, 0)
			record.ExpiresOn = &expires
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	return r.db.WithContext(ctx).Create(&record).Error
}

// WithinTx runs fn against a repository bound to one transaction
func (r *HistoryRepository) WithinTx(ctx context.Context, fn func(certificates.HistoryStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&HistoryRepository{db: tx})
	})
}

// LockSession takes a transaction-scoped advisory lock on (course, year, month).
// Only Postgres supports it; other dialects are a no-op.
func (r *HistoryRepository) LockSession(ctx context.Context, courseID uint, month time.Month, year int) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?, ?)", int32(courseID), int32(year*100+int(month))).Error
}

// CountCreatedSince counts certificates created from the given instant on
func (r *HistoryRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CertificateRecord{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

// CountToday counts certificates created today, whatever their performed date
func (r *HistoryRepository) CountToday(ctx context.Context) (int64, error) {
	return r.CountCreatedSince(ctx, now.BeginningOfDay())
}

// Count returns the total number of issued certificates
func (r *HistoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CertificateRecord{}).Count(&count).Error
	return count, err
}

// Expiring lists certificates whose expiry falls in [from, to], soonest first
func (r *HistoryRepository) Expiring(ctx context.Context, from, to time.Time, onlyUnnotified bool) ([]models.CertificateRecord, error) {
	q := r.db.WithContext(ctx).
		Preload("Subject.Entity").
		Preload("Course").
		Where("expires_on IS NOT NULL AND expires_on >= ? AND expires_on <= ?", certificates.Civil(from), certificates.Civil(to))
	if onlyUnnotified {
		q = q.Where("renewal_notice_sent = ?", false)
	}

	var records []models.CertificateRecord
	err := q.Order("expires_on, fiscal_code").Find(&records).Error
	return records, err
}

// ListBySubject returns a trainee's certificates, most recent first
func (r *HistoryRepository) ListBySubject(ctx context.Context, fiscalCode string) ([]models.CertificateRecord, error) {
	var records []models.CertificateRecord
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("fiscal_code = ?", fiscalCode).
		Order("performed_date DESC, id DESC").
		Find(&records).Error
	return records, err
}

func (r *HistoryRepository) MarkNoticeSent(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.CertificateRecord{}).Where("id = ?", id).Update("renewal_notice_sent", true).Error
}
