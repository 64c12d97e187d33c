package repository

import (
	"context"

	"gorm.io/gorm"

	"worksafe/models"
)

// CourseRepository is the course catalog
type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListCourses returns the whole catalog ordered by name
func (r *CourseRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	return r.Search(ctx, "")
}

// Search matches the start of the course name or short code
func (r *CourseRepository) Search(ctx context.Context, term string) ([]models.Course, error) {
	q := r.db.WithContext(ctx)
	if term != "" {
		p := prefix(term)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(short_code) LIKE ?", p, p)
	}
	var courses []models.Course
	err := q.Order("name").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Get(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) NextID(ctx context.Context) (uint, error) {
	return nextID(ctx, r.db, &models.Course{})
}

// Create stores a course, assigning the next free id when none is set
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if course.ID == 0 {
			id, err := nextID(ctx, tx, &models.Course{})
			if err != nil {
				return err
			}
			course.ID = id
		}
		return tx.Create(course).Error
	})
}

func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	if _, err := r.Get(ctx, course.ID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Omit("created_at").Save(course).Error
}

func (r *CourseRepository) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Course{}, id))
}
