package repository

import (
	"context"

	"gorm.io/gorm"

	"worksafe/models"
)

// EntityRepository manages the companies trainees come from
type EntityRepository struct {
	db *gorm.DB
}

func NewEntityRepository(db *gorm.DB) *EntityRepository {
	return &EntityRepository{db: db}
}

// Search matches the start of the description or VAT number
func (r *EntityRepository) Search(ctx context.Context, term string) ([]models.Entity, error) {
	q := r.db.WithContext(ctx)
	if term != "" {
		p := prefix(term)
		q = q.Where("LOWER(description) LIKE ? OR LOWER(vat_number) LIKE ?", p, p)
	}
	var entities []models.Entity
	err := q.Order("description").Find(&entities).Error
	return entities, err
}

func (r *EntityRepository) Get(ctx context.Context, id uint) (*models.Entity, error) {
	var entity models.Entity
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *EntityRepository) NextID(ctx context.Context) (uint, error) {
	return nextID(ctx, r.db, &models.Entity{})
}

func (r *EntityRepository) Create(ctx context.Context, entity *models.Entity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if entity.ID == 0 {
			id, err := nextID(ctx, tx, &models.Entity{})
			if err != nil {
				return err
			}
			entity.ID = id
		}
		return tx.Create(entity).Error
	})
}

func (r *EntityRepository) Update(ctx context.Context, entity *models.Entity) error {
	if _, err := r.Get(ctx, entity.ID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Omit("created_at").Save(entity).Error
}

func (r *EntityRepository) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Entity{}, id))
}
