package services

import (
	"SiKecil/database"
	"SiKecil/models"
	"SiKecil/repositories"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// KnowledgeService is the clinician-facing surface over symptoms, conditions,
// and rules. Mutations take a short Redis lock so two experts editing the
// same condition do not interleave.
type KnowledgeService struct {
	symptoms      *repositories.SymptomRepository
	conditions    *repositories.ConditionRepository
	rules         *repositories.RuleRepository
	patients      *repositories.PatientRepository
	consultations *repositories.ConsultationRepository
}

func NewKnowledgeService(
	symptoms *repositories.SymptomRepository,
	conditions *repositories.ConditionRepository,
	rules *repositories.RuleRepository,
	patients *repositories.PatientRepository,
	consultations *repositories.ConsultationRepository,
) *KnowledgeService {
	return &KnowledgeService{
		symptoms:      symptoms,
		conditions:    conditions,
		rules:         rules,
		patients:      patients,
		consultations: consultations,
	}
}

func (s *KnowledgeService) withLock(ctx context.Context, key string, fn func() error) error {
	lockValue := uuid.New().String()
	locked, err := database.NewLock(ctx, key, lockValue, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock %s", key)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, key, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()
	return fn()
}

// Symptoms.

func (s *KnowledgeService) CreateSymptom(ctx context.Context, symptom *models.Symptom) error {
	return s.withLock(ctx, "symptom_lock:"+symptom.Code, func() error {
		return s.symptoms.Create(ctx, symptom)
	})
}

func (s *KnowledgeService) GetSymptom(ctx context.Context, code string) (*models.Symptom, error) {
	symptom, err := s.symptoms.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if symptom == nil {
		return nil, errors.Wrap(ErrNotFound, "symptom does not exist")
	}
	return symptom, nil
}

func (s *KnowledgeService) GetAllSymptoms(ctx context.Context) ([]models.Symptom, error) {
	return s.symptoms.GetAll(ctx)
}

func (s *KnowledgeService) UpdateSymptom(ctx context.Context, symptom *models.Symptom) error {
	return s.withLock(ctx, "symptom_lock:"+symptom.Code, func() error {
		return s.symptoms.Update(ctx, symptom)
	})
}

func (s *KnowledgeService) DeleteSymptom(ctx context.Context, code string) error {
	return s.withLock(ctx, "symptom_lock:"+code, func() error {
		return s.symptoms.Delete(ctx, code)
	})
}

// Conditions.

func (s *KnowledgeService) CreateCondition(ctx context.Context, condition *models.Condition) error {
	return s.withLock(ctx, "condition_lock:"+condition.Code, func() error {
		return s.conditions.Create(ctx, condition)
	})
}

func (s *KnowledgeService) GetCondition(ctx context.Context, code string) (*models.Condition, error) {
	condition, err := s.conditions.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if condition == nil {
		return nil, errors.Wrap(ErrNotFound, "condition does not exist")
	}
	return condition, nil
}

func (s *KnowledgeService) GetAllConditions(ctx context.Context) ([]models.Condition, error) {
	return s.conditions.GetAll(ctx)
}

func (s *KnowledgeService) UpdateCondition(ctx context.Context, condition *models.Condition) error {
	return s.withLock(ctx, "condition_lock:"+condition.Code, func() error {
		return s.conditions.Update(ctx, condition)
	})
}

func (s *KnowledgeService) DeleteCondition(ctx context.Context, code string) error {
	return s.withLock(ctx, "condition_lock:"+code, func() error {
		return s.conditions.Delete(ctx, code)
	})
}

// Rules.

// RuleGroup is one AND-conjunction as shown to and edited by experts.
type RuleGroup struct {
	ConditionCode string           `json:"condition_code"`
	Condition     models.Condition `json:"condition"`
	GroupCode     string           `json:"group_code"`
	Symptoms      []models.Symptom `json:"symptoms"`
}

// CreateRuleGroup authors one new conjunction: every listed symptom must be
// present for the condition to conclude. Symptom and condition codes must
// already exist.
func (s *KnowledgeService) CreateRuleGroup(ctx context.Context, conditionCode, groupCode string, symptomCodes []string, note string) error {
	if len(symptomCodes) == 0 {
		return errors.Wrap(ErrInvalidInput, "rule group needs at least one symptom")
	}
	condition, err := s.conditions.GetByCode(ctx, conditionCode)
	if err != nil {
		return err
	}
	if condition == nil {
		return errors.Wrap(ErrNotFound, "condition does not exist")
	}
	for _, code := range symptomCodes {
		symptom, err := s.symptoms.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if symptom == nil {
			return errors.Wrapf(ErrNotFound, "symptom %s does not exist", code)
		}
	}
	return s.withLock(ctx, "rule_lock:"+conditionCode, func() error {
		return s.rules.CreateGroup(ctx, conditionCode, groupCode, symptomCodes, note)
	})
}

// ReplaceRulesForCondition rewrites every group of one condition at once,
// the way the expert editing screen submits them.
func (s *KnowledgeService) ReplaceRulesForCondition(ctx context.Context, conditionCode string, groups map[string][]string) error {
	condition, err := s.conditions.GetByCode(ctx, conditionCode)
	if err != nil {
		return err
	}
	if condition == nil {
		return errors.Wrap(ErrNotFound, "condition does not exist")
	}
	return s.withLock(ctx, "rule_lock:"+conditionCode, func() error {
		return s.rules.ReplaceForCondition(ctx, conditionCode, groups)
	})
}

func (s *KnowledgeService) DeleteRulesForCondition(ctx context.Context, conditionCode string) error {
	return s.withLock(ctx, "rule_lock:"+conditionCode, func() error {
		return s.rules.DeleteByCondition(ctx, conditionCode)
	})
}

// ListRuleGroups returns the whole rule table grouped for display, ordered by
// condition then group code.
func (s *KnowledgeService) ListRuleGroups(ctx context.Context) ([]RuleGroup, error) {
	rules, err := s.rules.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var groups []RuleGroup
	index := make(map[ruleGroupKey]int)
	for _, rule := range rules {
		key := ruleGroupKey{ConditionCode: rule.ConditionCode, GroupCode: rule.GroupCode}
		i, ok := index[key]
		if !ok {
			groups = append(groups, RuleGroup{
				ConditionCode: rule.ConditionCode,
				Condition:     rule.Condition,
				GroupCode:     rule.GroupCode,
			})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Symptoms = append(groups[i].Symptoms, rule.Symptom)
	}
	return groups, nil
}

// DashboardStats summarizes the system for the expert dashboard.
type DashboardStats struct {
	Patients      int64 `json:"patients"`
	Consultations int64 `json:"consultations"`
	Rules         int64 `json:"rules"`
	Conditions    int64 `json:"conditions"`
}

func (s *KnowledgeService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	patients, err := s.patients.Count(ctx)
	if err != nil {
		return nil, err
	}
	consultations, err := s.consultations.Count(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.rules.Count(ctx)
	if err != nil {
		return nil, err
	}
	conditions, err := s.conditions.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		Patients:      patients,
		Consultations: consultations,
		Rules:         rules,
		Conditions:    conditions,
	}, nil
}
