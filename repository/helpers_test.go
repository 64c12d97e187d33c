package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"worksafe/database"
	"worksafe/models"
)

var ctx = context.Background()

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "worksafe.db")))
	require.NoError(t, err)
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedEntity(t *testing.T, db *gorm.DB, id uint, description string) models.Entity {
	t.Helper()
	e := models.Entity{ID: id, Description: description}
	require.NoError(t, db.Create(&e).Error)
	return e
}

func seedSubject(t *testing.T, db *gorm.DB, cf, surname, name string, entityID *uint, instructor bool) models.Subject {
	t.Helper()
	s := models.Subject{FiscalCode: cf, Surname: surname, GivenName: name, EntityID: entityID, IsInstructor: instructor}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedCourse(t *testing.T, db *gorm.DB, id uint, name, code string, validityYears int) models.Course {
	t.Helper()
	c := models.Course{ID: id, Name: name, ShortCode: code, Hours: 4, ValidityYears: validityYears}
	require.NoError(t, db.Create(&c).Error)
	return c
}
