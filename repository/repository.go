// Package repository implements the certificate pipeline's collaborators and the
// registry queries on top of GORM.
package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// nextID returns MAX(id)+1 for tables whose ids are assigned by the application
func nextID(ctx context.Context, db *gorm.DB, model any) (uint, error) {
	var max uint
	if err := db.WithContext(ctx).Model(model).Select("COALESCE(MAX(id), 0)").Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}

// prefix builds a case-insensitive LIKE pattern matching values that start with term
func prefix(term string) string {
	return strings.ToLower(strings.TrimSpace(term)) + "%"
}

// deleted turns a delete that matched no row into gorm.ErrRecordNotFound
func deleted(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
