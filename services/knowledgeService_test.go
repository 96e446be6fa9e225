package services

import (
	"SiKecil/repositories"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newKnowledgeFixture(t *testing.T) (*KnowledgeService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	ruleRepo := repositories.NewRuleRepository(db, noCache())
	symptomRepo := repositories.NewSymptomRepository(db, noCache(), ruleRepo)
	conditionRepo := repositories.NewConditionRepository(db, noCache(), ruleRepo)
	patientRepo := repositories.NewPatientRepository(db, noCache())
	consultationRepo := repositories.NewConsultationRepository(db)

	service := NewKnowledgeService(symptomRepo, conditionRepo, ruleRepo, patientRepo, consultationRepo)
	return service, db
}

func TestListRuleGroupsFromSeed(t *testing.T) {
	service, _ := newKnowledgeFixture(t)

	groups, err := service.ListRuleGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 4)

	bySetKey := make(map[string][]string, len(groups))
	for _, group := range groups {
		codes := make([]string, 0, len(group.Symptoms))
		for _, symptom := range group.Symptoms {
			codes = append(codes, symptom.Code)
		}
		bySetKey[group.ConditionCode+"/"+group.GroupCode] = codes
	}

	assert.ElementsMatch(t, []string{"G01", "G02"}, bySetKey["K03/R01"])
	assert.ElementsMatch(t, []string{"G01", "G02", "G04"}, bySetKey["K03/R02"])
	assert.ElementsMatch(t, []string{"G02", "G06"}, bySetKey["K02/R03"])
	assert.ElementsMatch(t, []string{"G03", "G05"}, bySetKey["K01/R04"])
}

func TestGetAllSymptomsAndConditionsFromSeed(t *testing.T) {
	service, _ := newKnowledgeFixture(t)
	ctx := context.Background()

	symptoms, err := service.GetAllSymptoms(ctx)
	require.NoError(t, err)
	assert.Len(t, symptoms, 6)

	conditions, err := service.GetAllConditions(ctx)
	require.NoError(t, err)
	assert.Len(t, conditions, 3)

	condition, err := service.GetCondition(ctx, "K03")
	require.NoError(t, err)
	assert.Equal(t, "Stunting", condition.Name)

	_, err = service.GetCondition(ctx, "K99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDashboardStats(t *testing.T) {
	service, db := newKnowledgeFixture(t)
	ctx := context.Background()

	seedTestPatient(t, db, date(2021, time.March, 1))
	seedTestPatient(t, db, date(2022, time.August, 15))

	stats, err := service.GetDashboardStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Patients)
	assert.Equal(t, int64(0), stats.Consultations)
	assert.Equal(t, int64(9), stats.Rules)
	assert.Equal(t, int64(3), stats.Conditions)
}
