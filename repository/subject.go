package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"worksafe/certificates"
	"worksafe/models"
)

// SubjectRepository is the trainee and instructor directory
type SubjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// Search finds subjects whose surname, given name or fiscal code starts with the whole term,
// or, for terms of two or more words, whose surname and given name start with the first two
// words in either order ("Rossi Mario" and "Mario Rossi" both match).
func (r *SubjectRepository) Search(ctx context.Context, term string, instructorsOnly bool, limit int) ([]models.Subject, error) {
	q := r.db.WithContext(ctx).Preload("Entity")

	if term = strings.TrimSpace(term); term != "" {
		full := prefix(term)
		cond := r.db.Where("LOWER(surname) LIKE ? OR LOWER(given_name) LIKE ? OR LOWER(fiscal_code) LIKE ?", full, full, full)
		if parts := strings.Fields(term); len(parts) >= 2 {
			p1, p2 := prefix(parts[0]), prefix(parts[1])
			cond = cond.Or("(LOWER(surname) LIKE ? AND LOWER(given_name) LIKE ?) OR (LOWER(surname) LIKE ? AND LOWER(given_name) LIKE ?)", p1, p2, p2, p1)
		}
		q = q.Where(cond)
	}
	if instructorsOnly {
		q = q.Where("is_instructor = ?", true)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var subjects []models.Subject
	err := q.Order("surname, given_name").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) Get(ctx context.Context, fiscalCode string) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.WithContext(ctx).Preload("Entity").First(&subject, "fiscal_code = ?", strings.ToUpper(strings.TrimSpace(fiscalCode))).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// Trainee projects a subject into what the certificate prints
func (r *SubjectRepository) Trainee(ctx context.Context, fiscalCode string) (certificates.Trainee, error) {
	s, err := r.Get(ctx, fiscalCode)
	if err != nil {
		return certificates.Trainee{}, err
	}
	t := certificates.Trainee{
		FiscalCode:  s.FiscalCode,
		Surname:     s.Surname,
		GivenName:   s.GivenName,
		DateOfBirth: s.DateOfBirth,
		BirthPlace:  s.BirthPlace,
	}
	if s.Entity != nil {
		t.EntityName = s.Entity.Description
	}
	return t, nil
}

// ListInstructors returns every subject flagged as instructor, "Surname GivenName" ordered
func (r *SubjectRepository) ListInstructors(ctx context.Context) ([]certificates.Instructor, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).Where("is_instructor = ?", true).Order("surname, given_name").Find(&subjects).Error; err != nil {
		return nil, err
	}
	list := make([]certificates.Instructor, 0, len(subjects))
	for _, s := range subjects {
		list = append(list, certificates.Instructor{FiscalCode: s.FiscalCode, DisplayName: s.DisplayName()})
	}
	return list, nil
}

func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	subject.FiscalCode = strings.ToUpper(strings.TrimSpace(subject.FiscalCode))
	return r.db.WithContext(ctx).Omit("Entity").Create(subject).Error
}

func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	if _, err := r.Get(ctx, subject.FiscalCode); err != nil {
		return err
	}
	subject.FiscalCode = strings.ToUpper(strings.TrimSpace(subject.FiscalCode))
	return r.db.WithContext(ctx).Omit("Entity", "created_at").Save(subject).Error
}

// Upsert inserts the subject or overwrites the existing row; it reports whether the row was new
func (r *SubjectRepository) Upsert(ctx context.Context, subject *models.Subject) (bool, error) {
	_, err := r.Get(ctx, subject.FiscalCode)
	switch {
	case err == nil:
		return false, r.Update(ctx, subject)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true, r.Create(ctx, subject)
	default:
		return false, err
	}
}

func (r *SubjectRepository) Delete(ctx context.Context, fiscalCode string) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Subject{}, "fiscal_code = ?", strings.ToUpper(strings.TrimSpace(fiscalCode))))
}
