package services

import (
	"SiKecil/models"
	"SiKecil/repositories"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type inferenceFixture struct {
	db      *gorm.DB
	service *InferenceService
	rules   *repositories.RuleRepository
	patient *models.Patient
}

func newInferenceFixture(t *testing.T) *inferenceFixture {
	t.Helper()

	db := newTestDB(t)
	patientRepo := repositories.NewPatientRepository(db, noCache())
	ruleRepo := repositories.NewRuleRepository(db, noCache())
	consultationRepo := repositories.NewConsultationRepository(db)

	return &inferenceFixture{
		db:      db,
		service: NewInferenceService(patientRepo, ruleRepo, consultationRepo),
		rules:   ruleRepo,
		patient: seedTestPatient(t, db, date(2022, time.March, 10)),
	}
}

func detailCodes(consultation *models.Consultation) []string {
	codes := make([]string, 0, len(consultation.Details))
	for _, detail := range consultation.Details {
		codes = append(codes, detail.SymptomCode)
	}
	return codes
}

func TestDiagnoseExactMatch(t *testing.T) {
	f := newInferenceFixture(t)
	ctx := context.Background()

	consultation, err := f.service.Diagnose(ctx, f.patient.ID, []string{"G01", "G02"})
	require.NoError(t, err)

	require.NotNil(t, consultation.ResultCode)
	assert.Equal(t, "K03", *consultation.ResultCode)
	require.NotNil(t, consultation.Result)
	assert.Equal(t, "Stunting", consultation.Result.Name)
	assert.ElementsMatch(t, []string{"G01", "G02"}, detailCodes(consultation))
}

func TestDiagnoseMatchesEachSeededGroup(t *testing.T) {
	f := newInferenceFixture(t)
	ctx := context.Background()

	cases := []struct {
		codes []string
		want  string
	}{
		{[]string{"G01", "G02", "G04"}, "K03"},
		{[]string{"G02", "G06"}, "K02"},
		{[]string{"G03", "G05"}, "K01"},
	}
	for _, tc := range cases {
		consultation, err := f.service.Diagnose(ctx, f.patient.ID, tc.codes)
		require.NoError(t, err)
		require.NotNil(t, consultation.ResultCode, "codes %v", tc.codes)
		assert.Equal(t, tc.want, *consultation.ResultCode)
	}
}

func TestDiagnoseSubsetIsMiss(t *testing.T) {
	f := newInferenceFixture(t)
	ctx := context.Background()

	// G01 alone is a strict subset of the {G01, G02} group; equality
	// matching treats that as no conclusion, not a partial one.
	consultation, err := f.service.Diagnose(ctx, f.patient.ID, []string{"G01"})
	require.NoError(t, err)

	assert.Nil(t, consultation.ResultCode)
	assert.Nil(t, consultation.Result)
	assert.ElementsMatch(t, []string{"G01"}, detailCodes(consultation))
}

func TestDiagnoseSupersetIsMiss(t *testing.T) {
	f := newInferenceFixture(t)
	ctx := context.Background()

	consultation, err := f.service.Diagnose(ctx, f.patient.ID, []string{"G01", "G02", "G03"})
	require.NoError(t, err)

	assert.Nil(t, consultation.ResultCode)
}

func TestDiagnoseIgnoresOrderAndDuplicates(t *testing.T) {
	f := newInferenceFixture(t)
	ctx := context.Background()

	consultation, err := f.service.Diagnose(ctx, f.patient.ID, []string{"G02", "G01", "G02"})
	require.NoError(t, err)

	require.NotNil(t, consultation.ResultCode)
	assert.Equal(t, "K03", *consultation.ResultCode)
	assert.Len(t, consultation.Details, 2)
}

func TestDiagnoseUnknownPatient(t *testing.T) {
	f := newInferenceFixture(t)
	ctx := context.Background()

	_, err := f.service.Diagnose(ctx, "no-such-patient", []string{"G01", "G02"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.Consultation{}).Count(&count).Error)
	assert.Zero(t, count, "a failed diagnosis must not leave a consultation row")
}

func TestDiagnoseUnknownCodeDefeatsMatchButLeavesNoDetail(t *testing.T) {
	f := newInferenceFixture(t)
	ctx := context.Background()

	// The unknown code sits in working memory during matching, so the set
	// no longer equals {G01, G02}. It is still dropped from the persisted
	// detail rows, which afterwards look like a clean match that was not.
	consultation, err := f.service.Diagnose(ctx, f.patient.ID, []string{"G01", "G02", "G99"})
	require.NoError(t, err)

	assert.Nil(t, consultation.ResultCode)
	assert.ElementsMatch(t, []string{"G01", "G02"}, detailCodes(consultation))
}

func TestDiagnoseFirstMatchIsLowestKey(t *testing.T) {
	f := newInferenceFixture(t)
	ctx := context.Background()

	// Author a second group with the identical symptom set under K01. The
	// groups are visited in ascending (condition, group) order, so K01
	// wins over the seeded K03 group.
	require.NoError(t, f.rules.CreateGroup(ctx, "K01", "R90", []string{"G01", "G02"}, ""))

	consultation, err := f.service.Diagnose(ctx, f.patient.ID, []string{"G01", "G02"})
	require.NoError(t, err)

	require.NotNil(t, consultation.ResultCode)
	assert.Equal(t, "K01", *consultation.ResultCode)
}

func TestDiagnoseHistoryIsAppendOnly(t *testing.T) {
	f := newInferenceFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.service.Diagnose(ctx, f.patient.ID, []string{"G01", "G02"})
		require.NoError(t, err)
	}

	consultationRepo := repositories.NewConsultationRepository(f.db)
	history, err := consultationRepo.ListByPatient(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
	for _, consultation := range history {
		assert.Len(t, consultation.Details, 2)
	}
}
