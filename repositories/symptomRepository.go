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
	SymptomCacheExpiry = 24 * time.Hour
	symptomsCacheKey   = "symptoms_cache"
)

type SymptomRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	rules *RuleRepository
}

func NewSymptomRepository(db *gorm.DB, cache *cache.Cache, rules *RuleRepository) *SymptomRepository {
	return &SymptomRepository{db: db, cache: cache, rules: rules}
}

func (r *SymptomRepository) Create(ctx context.Context, symptom *models.Symptom) error {
	if err := r.db.WithContext(ctx).Create(symptom).Error; err != nil {
		return fmt.Errorf("failed to create symptom: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

// GetByCode returns the symptom or nil when no row exists.
func (r *SymptomRepository) GetByCode(ctx context.Context, code string) (*models.Symptom, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var symptom models.Symptom
	err := r.db.WithContext(ctx).First(&symptom, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get symptom: %w", err)
	}
	return &symptom, nil
}

func (r *SymptomRepository) GetAll(ctx context.Context) ([]models.Symptom, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cachedSymptoms, err := r.cache.Get(ctx, symptomsCacheKey)
	if err == nil {
		var symptoms []models.Symptom
		if err := json.Unmarshal([]byte(cachedSymptoms), &symptoms); err == nil {
			return symptoms, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get symptoms from cache: %v", err)
	}

	var symptoms []models.Symptom
	err = r.db.WithContext(ctx).Order("code").Find(&symptoms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all symptoms: %w", err)
	}

	symptomsJSON, err := json.Marshal(symptoms)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal symptoms: %w", err)
	}
	if err := r.cache.Set(ctx, symptomsCacheKey, symptomsJSON, SymptomCacheExpiry); err != nil {
		log.Printf("Failed to set symptoms in cache: %v", err)
	}

	return symptoms, nil
}

func (r *SymptomRepository) Update(ctx context.Context, symptom *models.Symptom) error {
	if err := r.db.WithContext(ctx).Save(symptom).Error; err != nil {
		return fmt.Errorf("failed to update symptom: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

// Delete removes a symptom; its rule rows cascade, so the rule cache is
// dropped alongside the symptom cache.
func (r *SymptomRepository) Delete(ctx context.Context, code string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Symptom{}, "code = ?", code).Error; err != nil {
		return fmt.Errorf("failed to delete symptom: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

func (r *SymptomRepository) invalidate(ctx context.Context) {
	if err := r.cache.Delete(ctx, symptomsCacheKey); err != nil {
		log.Printf("Failed to delete symptoms cache: %v", err)
	}
	r.rules.InvalidateCache(ctx)
}
