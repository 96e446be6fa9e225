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

type anthropometryFixture struct {
	db            *gorm.DB
	measurements  *repositories.MeasurementRepository
	notifications *repositories.NotificationRepository
	service       *AnthropometryService
}

func newAnthropometryFixture(t *testing.T) *anthropometryFixture {
	t.Helper()

	db := newTestDB(t)
	measurementRepo := repositories.NewMeasurementRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	return &anthropometryFixture{
		db:            db,
		measurements:  measurementRepo,
		notifications: notificationRepo,
		service:       NewAnthropometryService(measurementRepo, notificationRepo, nil),
	}
}

func (f *anthropometryFixture) createMeasurement(t *testing.T, patientID string, measuredAt time.Time, weight, height float64) *models.Measurement {
	t.Helper()

	measurement := &models.Measurement{
		PatientID:  patientID,
		MeasuredAt: measuredAt,
		Weight:     weight,
		Height:     height,
	}
	require.NoError(t, f.measurements.Create(context.Background(), measurement))
	return measurement
}

func TestScoreMeasurementTwelveMonths(t *testing.T) {
	f := newAnthropometryFixture(t)
	ctx := context.Background()

	patient := seedTestPatient(t, f.db, date(2020, time.January, 1))
	measurement := f.createMeasurement(t, patient.ID, date(2021, time.January, 1), 12.5, 85.0)

	scored, err := f.service.ScoreMeasurement(ctx, measurement.ID)
	require.NoError(t, err)

	// Age 12 months: weight reference 9.0 (SD 2.9), height reference 69.0
	// (SD 4.6). The raw height score 3.48 clamps to 3.0.
	require.NotNil(t, scored.WeightForAgeZ)
	require.NotNil(t, scored.HeightForAgeZ)
	assert.InDelta(t, 1.21, *scored.WeightForAgeZ, 1e-9)
	assert.InDelta(t, 3.0, *scored.HeightForAgeZ, 1e-9)
}

func TestScoreMeasurementIsDeterministic(t *testing.T) {
	f := newAnthropometryFixture(t)
	ctx := context.Background()

	patient := seedTestPatient(t, f.db, date(2020, time.January, 1))
	measurement := f.createMeasurement(t, patient.ID, date(2021, time.January, 1), 12.5, 85.0)

	first, err := f.service.ScoreMeasurement(ctx, measurement.ID)
	require.NoError(t, err)
	second, err := f.service.ScoreMeasurement(ctx, measurement.ID)
	require.NoError(t, err)

	assert.Equal(t, *first.WeightForAgeZ, *second.WeightForAgeZ)
	assert.Equal(t, *first.HeightForAgeZ, *second.HeightForAgeZ)
}

func TestScoreMeasurementClampsBothDirections(t *testing.T) {
	f := newAnthropometryFixture(t)
	ctx := context.Background()

	patient := seedTestPatient(t, f.db, date(2020, time.January, 1))
	measurement := f.createMeasurement(t, patient.ID, date(2021, time.January, 1), 50.0, 20.0)

	scored, err := f.service.ScoreMeasurement(ctx, measurement.ID)
	require.NoError(t, err)

	assert.Equal(t, 3.0, *scored.WeightForAgeZ)
	assert.Equal(t, -3.0, *scored.HeightForAgeZ)
}

func TestScoreMeasurementAgeBoundaries(t *testing.T) {
	f := newAnthropometryFixture(t)
	ctx := context.Background()

	t.Run("age zero scores", func(t *testing.T) {
		patient := seedTestPatient(t, f.db, date(2023, time.June, 1))
		measurement := f.createMeasurement(t, patient.ID, date(2023, time.June, 1), 3.2, 50.0)

		scored, err := f.service.ScoreMeasurement(ctx, measurement.ID)
		require.NoError(t, err)
		assert.NotNil(t, scored.WeightForAgeZ)
	})

	t.Run("age 240 scores", func(t *testing.T) {
		patient := seedTestPatient(t, f.db, date(2000, time.January, 1))
		measurement := f.createMeasurement(t, patient.ID, date(2020, time.January, 1), 55.0, 165.0)

		scored, err := f.service.ScoreMeasurement(ctx, measurement.ID)
		require.NoError(t, err)
		assert.NotNil(t, scored.HeightForAgeZ)
	})

	t.Run("age 241 is rejected", func(t *testing.T) {
		patient := seedTestPatient(t, f.db, date(2000, time.January, 1))
		measurement := f.createMeasurement(t, patient.ID, date(2020, time.February, 1), 55.0, 165.0)

		_, err := f.service.ScoreMeasurement(ctx, measurement.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("measurement before birth is rejected", func(t *testing.T) {
		patient := seedTestPatient(t, f.db, date(2022, time.January, 1))
		measurement := f.createMeasurement(t, patient.ID, date(2021, time.June, 1), 8.0, 70.0)

		_, err := f.service.ScoreMeasurement(ctx, measurement.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestScoreMeasurementFailureLeavesBothScoresNull(t *testing.T) {
	f := newAnthropometryFixture(t)
	ctx := context.Background()

	patient := seedTestPatient(t, f.db, date(2000, time.January, 1))
	measurement := f.createMeasurement(t, patient.ID, date(2020, time.February, 1), 55.0, 165.0)

	_, err := f.service.ScoreMeasurement(ctx, measurement.ID)
	require.Error(t, err)

	var stored models.Measurement
	require.NoError(t, f.db.First(&stored, measurement.ID).Error)
	assert.Nil(t, stored.WeightForAgeZ)
	assert.Nil(t, stored.HeightForAgeZ)
}

func TestScoreMeasurementUnknownID(t *testing.T) {
	f := newAnthropometryFixture(t)

	_, err := f.service.ScoreMeasurement(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleFollowup(t *testing.T) {
	f := newAnthropometryFixture(t)
	ctx := context.Background()

	patient := seedTestPatient(t, f.db, date(2020, time.January, 1))
	created := f.createMeasurement(t, patient.ID, date(2021, time.January, 1), 12.5, 85.0)

	// Reload so the patient association is populated.
	measurement, err := f.measurements.GetByID(ctx, created.ID)
	require.NoError(t, err)

	reminder, err := f.service.ScheduleFollowup(ctx, measurement)
	require.NoError(t, err)

	assert.Equal(t, "Jadwal Pengukuran Ulang", reminder.Title)
	assert.Equal(t, models.NotificationRemeasure, reminder.Kind)
	assert.Equal(t, date(2021, time.January, 31), reminder.DueAt)

	notifications, err := f.notifications.ListByPatient(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	byKind := make(map[string]models.Notification, len(notifications))
	for _, notification := range notifications {
		byKind[notification.Kind] = notification
	}

	tip, ok := byKind[models.NotificationNutrition]
	require.True(t, ok)
	assert.Equal(t, "Tips Gizi Hari Ini", tip.Title)
	assert.True(t, tip.Delivered, "the nutrition tip is due immediately and the read marks it delivered")

	future, ok := byKind[models.NotificationRemeasure]
	require.True(t, ok)
	assert.False(t, future.Delivered)
}
