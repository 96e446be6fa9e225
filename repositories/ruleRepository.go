package repositories

import (
	"SiKecil/cache"
	"SiKecil/models"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	RuleCacheExpiry = 24 * time.Hour
	rulesCacheKey   = "rules_cache"
)

// RuleRepository is the rule store: it hands the full rule table to the
// inference engine, which does its own grouping. The cached copy is thrown
// away on every knowledge-base mutation.
type RuleRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewRuleRepository(db *gorm.DB, cache *cache.Cache) *RuleRepository {
	return &RuleRepository{db: db, cache: cache}
}

// GetAll returns every rule row together with its owning condition and symptom.
func (r *RuleRepository) GetAll(ctx context.Context) ([]models.Rule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cachedRules, err := r.cache.Get(ctx, rulesCacheKey)
	if err == nil {
		var rules []models.Rule
		if err := json.Unmarshal([]byte(cachedRules), &rules); err == nil {
			return rules, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get rules from cache: %v", err)
	}

	var rules []models.Rule
	err = r.db.WithContext(ctx).
		Preload("Condition").
		Preload("Symptom").
		Order("condition_code, group_code, symptom_code").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all rules: %w", err)
	}

	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rules: %w", err)
	}
	if err := r.cache.Set(ctx, rulesCacheKey, rulesJSON, RuleCacheExpiry); err != nil {
		log.Printf("Failed to set rules in cache: %v", err)
	}

	return rules, nil
}

// CreateGroup creates one rule row per symptom under a single (condition,
// group) conjunction, atomically.
func (r *RuleRepository) CreateGroup(ctx context.Context, conditionCode, groupCode string, symptomCodes []string, note string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, symptomCode := range symptomCodes {
			rule := models.Rule{
				ConditionCode: conditionCode,
				GroupCode:     groupCode,
				SymptomCode:   symptomCode,
				Note:          note,
			}
			if err := tx.Create(&rule).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create rule group: %w", err)
	}
	r.InvalidateCache(ctx)
	return nil
}

// ReplaceForCondition deletes every rule of a condition and writes the given
// groups in their place, atomically.
func (r *RuleRepository) ReplaceForCondition(ctx context.Context, conditionCode string, groups map[string][]string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Rule{}, "condition_code = ?", conditionCode).Error; err != nil {
			return err
		}
		for groupCode, symptomCodes := range groups {
			for _, symptomCode := range symptomCodes {
				rule := models.Rule{
					ConditionCode: conditionCode,
					GroupCode:     groupCode,
					SymptomCode:   symptomCode,
				}
				if err := tx.Create(&rule).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace rules for condition: %w", err)
	}
	r.InvalidateCache(ctx)
	return nil
}

// DeleteByCondition removes every rule pointing at the given condition.
func (r *RuleRepository) DeleteByCondition(ctx context.Context, conditionCode string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Rule{}, "condition_code = ?", conditionCode).Error; err != nil {
		return fmt.Errorf("failed to delete rules for condition: %w", err)
	}
	r.InvalidateCache(ctx)
	return nil
}

// Count returns the number of rule rows.
func (r *RuleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Rule{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return count, nil
}

// InvalidateCache drops the cached rule table. Failures are logged, not
// returned: a stale cache heals on expiry, a failed write would not.
func (r *RuleRepository) InvalidateCache(ctx context.Context) {
	if err := r.cache.Delete(ctx, rulesCacheKey); err != nil {
		log.Printf("Failed to delete rules cache: %v", err)
	}
}
