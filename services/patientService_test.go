package services

import (
	"SiKecil/models"
	"SiKecil/repositories"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPatientService(t *testing.T) (*PatientService, *repositories.PatientRepository) {
	t.Helper()
	db := newTestDB(t)
	repo := repositories.NewPatientRepository(db, noCache())
	return NewPatientService(repo), repo
}

func validRegistration() (*models.Patient, string) {
	return &models.Patient{
		Username:     "ibu_sari",
		Name:         "Budi",
		Sex:          "L",
		BirthDate:    date(2021, time.May, 10),
		GuardianName: "Ibu Sari",
		Phone:        "081234567890",
	}, "rahasia1"
}

func TestRegisterPatient(t *testing.T) {
	service, repo := newPatientService(t)
	ctx := context.Background()

	patient, password := validRegistration()
	require.NoError(t, service.Register(ctx, patient, password))

	assert.NotEmpty(t, patient.ID)

	stored, err := repo.GetByUsername(ctx, "ibu_sari")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.CheckPassword(password))
	assert.False(t, stored.CheckPassword("wrong"))
}

func TestRegisterPatientValidation(t *testing.T) {
	service, _ := newPatientService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(p *models.Patient, password *string)
	}{
		{"short password", func(p *models.Patient, password *string) { *password = "abc" }},
		{"missing name", func(p *models.Patient, _ *string) { p.Name = "" }},
		{"invalid sex", func(p *models.Patient, _ *string) { p.Sex = "X" }},
		{"future birth date", func(p *models.Patient, _ *string) { p.BirthDate = time.Now().AddDate(1, 0, 0) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			patient, password := validRegistration()
			tc.mutate(patient, &password)

			err := service.Register(ctx, patient, password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegisterPatientDuplicateUsername(t *testing.T) {
	service, _ := newPatientService(t)
	ctx := context.Background()

	patient, password := validRegistration()
	require.NoError(t, service.Register(ctx, patient, password))

	duplicate, password := validRegistration()
	err := service.Register(ctx, duplicate, password)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthenticatePatient(t *testing.T) {
	service, _ := newPatientService(t)
	ctx := context.Background()

	patient, password := validRegistration()
	require.NoError(t, service.Register(ctx, patient, password))

	authenticated, err := service.Authenticate(ctx, patient.Username, password)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, authenticated.ID)

	_, err = service.Authenticate(ctx, patient.Username, "wrong-password")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.Authenticate(ctx, "nobody", password)
	assert.ErrorIs(t, err, ErrNotFound)
}
