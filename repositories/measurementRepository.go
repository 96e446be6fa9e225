package repositories

import (
	"SiKecil/models"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type MeasurementRepository struct {
	db *gorm.DB
}

func NewMeasurementRepository(db *gorm.DB) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

func (r *MeasurementRepository) Create(ctx context.Context, measurement *models.Measurement) error {
	if err := r.db.WithContext(ctx).Create(measurement).Error; err != nil {
		return fmt.Errorf("failed to create measurement: %w", err)
	}
	return nil
}

// GetByID returns the measurement with its owning patient, or nil.
func (r *MeasurementRepository) GetByID(ctx context.Context, id uint) (*models.Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var measurement models.Measurement
	err := r.db.WithContext(ctx).Preload("Patient").First(&measurement, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get measurement: %w", err)
	}
	return &measurement, nil
}

// ListByPatient returns a patient's measurements ordered by measurement date
// ascending, for trend display.
func (r *MeasurementRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var measurements []models.Measurement
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("measured_at ASC").
		Find(&measurements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	return measurements, nil
}

// ListRecent returns a patient's latest measurements, newest first.
func (r *MeasurementRepository) ListRecent(ctx context.Context, patientID string, limit int) ([]models.Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var measurements []models.Measurement
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("measured_at DESC").
		Limit(limit).
		Find(&measurements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent measurements: %w", err)
	}
	return measurements, nil
}

// SaveScores writes both deviation scores in one update so a measurement is
// never left with one score set and the other missing.
func (r *MeasurementRepository) SaveScores(ctx context.Context, id uint, weightForAgeZ, heightForAgeZ float64) error {
	err := r.db.WithContext(ctx).Model(&models.Measurement{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"weight_for_age_z": weightForAgeZ,
			"height_for_age_z": heightForAgeZ,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save measurement scores: %w", err)
	}
	return nil
}

func (r *MeasurementRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Measurement{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete measurement: %w", err)
	}
	return nil
}
