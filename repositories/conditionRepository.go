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
	ConditionCacheExpiry = 24 * time.Hour
	conditionsCacheKey   = "conditions_cache"
)

type ConditionRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	rules *RuleRepository
}

func NewConditionRepository(db *gorm.DB, cache *cache.Cache, rules *RuleRepository) *ConditionRepository {
	return &ConditionRepository{db: db, cache: cache, rules: rules}
}

func (r *ConditionRepository) Create(ctx context.Context, condition *models.Condition) error {
	if err := r.db.WithContext(ctx).Create(condition).Error; err != nil {
		return fmt.Errorf("failed to create condition: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

// GetByCode returns the condition or nil when no row exists.
func (r *ConditionRepository) GetByCode(ctx context.Context, code string) (*models.Condition, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var condition models.Condition
	err := r.db.WithContext(ctx).First(&condition, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get condition: %w", err)
	}
	return &condition, nil
}

func (r *ConditionRepository) GetAll(ctx context.Context) ([]models.Condition, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cachedConditions, err := r.cache.Get(ctx, conditionsCacheKey)
	if err == nil {
		var conditions []models.Condition
		if err := json.Unmarshal([]byte(cachedConditions), &conditions); err == nil {
			return conditions, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get conditions from cache: %v", err)
	}

	var conditions []models.Condition
	err = r.db.WithContext(ctx).Order("code").Find(&conditions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all conditions: %w", err)
	}

	conditionsJSON, err := json.Marshal(conditions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conditions: %w", err)
	}
	if err := r.cache.Set(ctx, conditionsCacheKey, conditionsJSON, ConditionCacheExpiry); err != nil {
		log.Printf("Failed to set conditions in cache: %v", err)
	}

	return conditions, nil
}

func (r *ConditionRepository) Update(ctx context.Context, condition *models.Condition) error {
	if err := r.db.WithContext(ctx).Save(condition).Error; err != nil {
		return fmt.Errorf("failed to update condition: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

// Delete removes a condition. Its rules cascade away; past consultations that
// concluded it are nulled out by the foreign key, never deleted.
func (r *ConditionRepository) Delete(ctx context.Context, code string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Condition{}, "code = ?", code).Error; err != nil {
		return fmt.Errorf("failed to delete condition: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

func (r *ConditionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Condition{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count conditions: %w", err)
	}
	return count, nil
}

func (r *ConditionRepository) invalidate(ctx context.Context) {
	if err := r.cache.Delete(ctx, conditionsCacheKey); err != nil {
		log.Printf("Failed to delete conditions cache: %v", err)
	}
	r.rules.InvalidateCache(ctx)
}
