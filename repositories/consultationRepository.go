package repositories

import (
	"SiKecil/models"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ConsultationRepository persists inference runs and their audit trail.
type ConsultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

// Record writes a consultation together with one detail row per resolvable
// reported symptom code, in a single transaction. Codes that do not resolve
// to a known symptom are skipped; everything commits or nothing does, so a
// consultation is never observed without its details.
func (r *ConsultationRepository) Record(ctx context.Context, consultation *models.Consultation, symptomCodes []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(consultation).Error; err != nil {
			return err
		}
		for _, code := range symptomCodes {
			var symptom models.Symptom
			if err := tx.First(&symptom, "code = ?", code).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // unknown codes are dropped from the audit trail
				}
				return err
			}
			detail := models.ConsultationDetail{
				ConsultationID: consultation.ID,
				SymptomCode:    symptom.Code,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return err
			}
			consultation.Details = append(consultation.Details, detail)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record consultation: %w", err)
	}
	return nil
}

// GetByID loads one consultation with its details and resulting condition.
func (r *ConsultationRepository) GetByID(ctx context.Context, patientID string, id uint) (*models.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var consultation models.Consultation
	err := r.db.WithContext(ctx).
		Preload("Result").
		Preload("Details.Symptom").
		First(&consultation, "id = ? AND patient_id = ?", id, patientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	return &consultation, nil
}

// ListByPatient returns a patient's consultations, newest first.
func (r *ConsultationRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var consultations []models.Consultation
	err := r.db.WithContext(ctx).
		Preload("Result").
		Preload("Details.Symptom").
		Where("patient_id = ?", patientID).
		Order("consulted_at DESC").
		Find(&consultations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

// Count returns the number of consultations recorded overall.
func (r *ConsultationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Consultation{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count consultations: %w", err)
	}
	return count, nil
}
