package services

import (
	"SiKecil/models"
	"SiKecil/repositories"
	"SiKecil/utils"
	"context"
	"log"

	"github.com/pkg/errors"
)

// MeasurementService handles measurement intake: validate, store, score, and
// schedule the follow-up, in that order.
type MeasurementService struct {
	patients      *repositories.PatientRepository
	measurements  *repositories.MeasurementRepository
	anthropometry *AnthropometryService
}

func NewMeasurementService(
	patients *repositories.PatientRepository,
	measurements *repositories.MeasurementRepository,
	anthropometry *AnthropometryService,
) *MeasurementService {
	return &MeasurementService{
		patients:      patients,
		measurements:  measurements,
		anthropometry: anthropometry,
	}
}

// Record stores a new measurement and immediately scores it. When scoring
// fails the freshly created row is removed again so no unscored measurement
// lingers. Follow-up scheduling failures are logged but do not undo the
// measurement.
func (s *MeasurementService) Record(ctx context.Context, measurement *models.Measurement) (*models.Measurement, error) {
	patient, err := s.patients.GetByID(ctx, measurement.PatientID)
	if err != nil {
		return nil, errors.Wrap(err, "record measurement: failed to load patient")
	}
	if patient == nil {
		return nil, errors.Wrap(ErrNotFound, "record measurement: patient does not exist")
	}

	if err := utils.ValidateMeasurementInput(*measurement, patient.BirthDate); err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}

	if err := s.measurements.Create(ctx, measurement); err != nil {
		return nil, errors.Wrap(err, "record measurement: failed to create")
	}

	scored, err := s.anthropometry.ScoreMeasurement(ctx, measurement.ID)
	if err != nil {
		if deleteErr := s.measurements.Delete(ctx, measurement.ID); deleteErr != nil {
			log.Printf("Failed to remove unscored measurement %d: %v", measurement.ID, deleteErr)
		}
		return nil, err
	}

	if _, err := s.anthropometry.ScheduleFollowup(ctx, scored); err != nil {
		log.Printf("Failed to schedule follow-up for measurement %d: %v", scored.ID, err)
	}

	return scored, nil
}

// ListByPatient returns the growth history ordered by measurement date.
func (s *MeasurementService) ListByPatient(ctx context.Context, patientID string) ([]models.Measurement, error) {
	return s.measurements.ListByPatient(ctx, patientID)
}

// ListRecent returns the latest measurements for the intake screen.
func (s *MeasurementService) ListRecent(ctx context.Context, patientID string, limit int) ([]models.Measurement, error) {
	return s.measurements.ListRecent(ctx, patientID, limit)
}
