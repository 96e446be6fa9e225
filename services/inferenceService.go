package services

import (
	"SiKecil/models"
	"SiKecil/repositories"
	"context"
	"sort"

	"github.com/pkg/errors"
)

// InferenceService is the diagnosis engine: strict-equality forward chaining
// over the expert-authored rule table. The reported symptom set must match a
// rule group's symptom set exactly; a near-subset or near-superset is a miss,
// not a partial result. That brittleness comes from the screening protocol
// this system implements and is asserted by the tests, so do not relax it to
// subset or weighted matching.
type InferenceService struct {
	patients      *repositories.PatientRepository
	rules         *repositories.RuleRepository
	consultations *repositories.ConsultationRepository
}

func NewInferenceService(
	patients *repositories.PatientRepository,
	rules *repositories.RuleRepository,
	consultations *repositories.ConsultationRepository,
) *InferenceService {
	return &InferenceService{
		patients:      patients,
		rules:         rules,
		consultations: consultations,
	}
}

// ruleGroupKey identifies one AND-conjunction of rule facts.
type ruleGroupKey struct {
	ConditionCode string
	GroupCode     string
}

// Diagnose runs one inference pass for a patient and records the outcome.
//
// The working memory is the set of distinct reported codes. Codes that do not
// resolve to a known symptom are dropped from the persisted audit trail but
// still sit in working memory during the equality comparison, so a typo'd
// code defeats an otherwise matching set while leaving no trace in the detail
// rows. That asymmetry is inherited from the screening protocol; it is kept
// rather than fixed.
//
// The consultation row, its detail rows, and the result are committed in one
// transaction. An unknown patient fails with ErrNotFound before anything is
// written.
func (s *InferenceService) Diagnose(ctx context.Context, patientID string, symptomCodes []string) (*models.Consultation, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, errors.Wrap(err, "diagnose: failed to load patient")
	}
	if patient == nil {
		return nil, errors.Wrap(ErrNotFound, "diagnose: patient does not exist")
	}

	workingMemory := make(map[string]struct{}, len(symptomCodes))
	distinctCodes := make([]string, 0, len(symptomCodes))
	for _, code := range symptomCodes {
		if _, seen := workingMemory[code]; seen {
			continue
		}
		workingMemory[code] = struct{}{}
		distinctCodes = append(distinctCodes, code)
	}

	rules, err := s.rules.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "diagnose: failed to load rules")
	}

	result := matchRuleGroups(rules, workingMemory)

	consultation := &models.Consultation{PatientID: patient.ID}
	if result != nil {
		consultation.ResultCode = &result.Code
		consultation.Result = result
	}

	if err := s.consultations.Record(ctx, consultation, distinctCodes); err != nil {
		return nil, errors.Wrap(err, "diagnose: failed to record consultation")
	}
	return consultation, nil
}

// matchRuleGroups groups the rule table by (condition, group code) and
// returns the condition of the first group whose symptom set equals the
// working memory. Groups are visited in ascending key order so the first
// match is deterministic; with two identically authored symptom sets the
// lexicographically lowest (condition, group) pair wins.
func matchRuleGroups(rules []models.Rule, workingMemory map[string]struct{}) *models.Condition {
	groups := make(map[ruleGroupKey][]models.Rule)
	for _, rule := range rules {
		key := ruleGroupKey{ConditionCode: rule.ConditionCode, GroupCode: rule.GroupCode}
		groups[key] = append(groups[key], rule)
	}

	keys := make([]ruleGroupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ConditionCode != keys[j].ConditionCode {
			return keys[i].ConditionCode < keys[j].ConditionCode
		}
		return keys[i].GroupCode < keys[j].GroupCode
	})

	for _, key := range keys {
		groupSymptoms := make(map[string]struct{}, len(groups[key]))
		for _, rule := range groups[key] {
			groupSymptoms[rule.SymptomCode] = struct{}{}
		}
		if setsEqual(groupSymptoms, workingMemory) {
			condition := groups[key][0].Condition
			return &condition
		}
	}
	return nil
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for key := range a {
		if _, ok := b[key]; !ok {
			return false
		}
	}
	return true
}
