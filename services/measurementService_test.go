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

type measurementFixture struct {
	db      *gorm.DB
	service *MeasurementService
}

func newMeasurementFixture(t *testing.T) *measurementFixture {
	t.Helper()

	db := newTestDB(t)
	patientRepo := repositories.NewPatientRepository(db, noCache())
	measurementRepo := repositories.NewMeasurementRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	anthropometry := NewAnthropometryService(measurementRepo, notificationRepo, nil)

	return &measurementFixture{
		db:      db,
		service: NewMeasurementService(patientRepo, measurementRepo, anthropometry),
	}
}

func TestRecordMeasurementScoresAndSchedules(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	patient := seedTestPatient(t, f.db, date(2020, time.January, 1))

	scored, err := f.service.Record(ctx, &models.Measurement{
		PatientID:  patient.ID,
		MeasuredAt: date(2021, time.January, 1),
		Weight:     12.5,
		Height:     85.0,
	})
	require.NoError(t, err)

	require.NotNil(t, scored.WeightForAgeZ)
	require.NotNil(t, scored.HeightForAgeZ)
	assert.InDelta(t, 1.21, *scored.WeightForAgeZ, 1e-9)
	assert.InDelta(t, 3.0, *scored.HeightForAgeZ, 1e-9)

	var notifications []models.Notification
	require.NoError(t, f.db.Where("patient_id = ?", patient.ID).Find(&notifications).Error)
	assert.Len(t, notifications, 2, "intake schedules the reminder and the nutrition tip")
}

func TestRecordMeasurementUnknownPatient(t *testing.T) {
	f := newMeasurementFixture(t)

	_, err := f.service.Record(context.Background(), &models.Measurement{
		PatientID:  "no-such-patient",
		MeasuredAt: date(2021, time.January, 1),
		Weight:     12.5,
		Height:     85.0,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordMeasurementDeletesRowWhenScoringFails(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	// Born in 2000 the child is 241 months old at the measurement date, so
	// scoring fails and the freshly created row must be rolled back.
	patient := seedTestPatient(t, f.db, date(2000, time.January, 1))

	_, err := f.service.Record(ctx, &models.Measurement{
		PatientID:  patient.ID,
		MeasuredAt: date(2020, time.February, 1),
		Weight:     55.0,
		Height:     165.0,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var count int64
	require.NoError(t, f.db.Model(&models.Measurement{}).Where("patient_id = ?", patient.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecordMeasurementBeforeBirthIsRejected(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	patient := seedTestPatient(t, f.db, date(2022, time.June, 1))

	_, err := f.service.Record(ctx, &models.Measurement{
		PatientID:  patient.ID,
		MeasuredAt: date(2021, time.June, 1),
		Weight:     8.0,
		Height:     70.0,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListRecentReturnsNewestFirst(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	patient := seedTestPatient(t, f.db, date(2020, time.January, 1))
	for month := time.January; month <= time.June; month++ {
		_, err := f.service.Record(ctx, &models.Measurement{
			PatientID:  patient.ID,
			MeasuredAt: date(2021, month, 1),
			Weight:     10.0 + float64(month),
			Height:     75.0 + float64(month),
		})
		require.NoError(t, err)
	}

	recent, err := f.service.ListRecent(ctx, patient.ID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.True(t, recent[0].MeasuredAt.Equal(date(2021, time.June, 1)))
	assert.True(t, recent[0].MeasuredAt.After(recent[4].MeasuredAt))
}
