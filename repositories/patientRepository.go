package repositories

import (
	"SiKecil/cache"
	"SiKecil/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	PatientCacheExpiry = 24 * time.Hour
)

type PatientRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewPatientRepository(db *gorm.DB, cache *cache.Cache) *PatientRepository {
	return &PatientRepository{db: db, cache: cache}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	r.invalidate(ctx, patient.ID)
	return nil
}

// GetByID returns the patient or nil when no row exists.
func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getPatientCacheKey(id)
	cachedPatient, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var patient models.Patient
		if err := json.Unmarshal([]byte(cachedPatient), &patient); err == nil {
			return &patient, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get patient from cache: %v", err)
	}

	var patient models.Patient
	err = r.db.WithContext(ctx).First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	patientJSON, err := json.Marshal(patient)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patient: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, patientJSON, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patient in cache: %v", err)
	}

	return &patient, nil
}

// GetByUsername returns the patient or nil. Not cached: the password hash is
// read here and must always be current.
func (r *PatientRepository) GetByUsername(ctx context.Context, username string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var patient models.Patient
	err := r.db.WithContext(ctx).First(&patient, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient by username: %w", err)
	}
	return &patient, nil
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var patients []models.Patient
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all patients: %w", err)
	}
	return patients, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Save(patient).Error; err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	r.invalidate(ctx, patient.ID)
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Patient{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *PatientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Patient{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}

func (r *PatientRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, r.getPatientCacheKey(id)); err != nil {
		log.Printf("Failed to delete patient cache: %v", err)
	}
}

func (r *PatientRepository) getPatientCacheKey(id string) string {
	return fmt.Sprintf("patient_cache:%s", id)
}
