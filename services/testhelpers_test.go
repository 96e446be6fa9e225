package services

import (
	"SiKecil/cache"
	"SiKecil/database"
	"SiKecil/models"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory database, migrated and seeded with
// the initial knowledge base.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second connection would see an empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.MigrateAndSeed(db))
	return db
}

// noCache is a cache wrapper with no backing client; every operation is a
// logged miss.
func noCache() *cache.Cache {
	return cache.New(nil)
}

func seedTestPatient(t *testing.T, db *gorm.DB, birthDate time.Time) *models.Patient {
	t.Helper()

	patient := &models.Patient{
		ID:            uuid.New().String(),
		Username:      "patient-" + uuid.New().String()[:8],
		Name:          "Adik Kecil",
		Sex:           "L",
		BirthDate:     birthDate,
		GuardianName:  "Ibu Sari",
		GuardianEmail: "",
	}
	require.NoError(t, patient.SetPassword("rahasia1"))
	require.NoError(t, db.Create(patient).Error)
	return patient
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}
