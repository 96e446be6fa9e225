package database

import (
	"SiKecil/models"
	"context"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance.
var DB *gorm.DB

// InitDB initializes the database connection and configures it.
func InitDB(ctx context.Context, dsn string) (*gorm.DB, error) {
	var err error

	// Configure logging level based on environment
	logMode := logger.Silent
	if os.Getenv("ENV") == "development" {
		logMode = logger.Info
	}

	// Open the database connection
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: false,
		PrepareStmt:                              true,
		Logger:                                   logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	// Configure connection pool
	if err := configureConnectionPool(); err != nil {
		return nil, err
	}

	// Test the database connection
	if err := testDatabaseConnection(ctx); err != nil {
		return nil, err
	}

	// Run migrations
	if err := runMigrations(DB); err != nil {
		return nil, err
	}

	// Seed initial data
	if err := seedInitialData(DB); err != nil {
		return nil, err
	}

	log.Println("Database initialized successfully.")
	return DB, nil
}

// configureConnectionPool sets up the connection pool settings for the database.
func configureConnectionPool() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// testDatabaseConnection verifies that the database connection is functional.
func testDatabaseConnection(ctx context.Context) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

// runMigrations performs database schema migrations.
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.User{},
		&models.Patient{},
		&models.Symptom{},
		&models.Condition{},
		&models.Rule{},
		&models.Consultation{},
		&models.ConsultationDetail{},
		&models.Measurement{},
		&models.Notification{},
	)
}

// seedInitialData populates the database with initial data.
func seedInitialData(db *gorm.DB) error {
	if err := models.SeedRoles(db); err != nil {
		return errors.Wrap(err, "failed to seed roles")
	}
	if err := models.SeedPermissions(db); err != nil {
		return errors.Wrap(err, "failed to seed permissions")
	}
	if err := models.SeedRolePermissions(db); err != nil {
		return errors.Wrap(err, "failed to seed role permissions")
	}
	if err := models.SeedKnowledgeBase(db); err != nil {
		return errors.Wrap(err, "failed to seed knowledge base")
	}
	return nil
}

// MigrateAndSeed runs migrations and seeds against an arbitrary gorm handle.
// Used by tests that run on a throwaway dialect.
func MigrateAndSeed(db *gorm.DB) error {
	if err := runMigrations(db); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}
	return seedInitialData(db)
}
