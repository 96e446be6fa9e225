package services

import (
	"SiKecil/models"
	"SiKecil/repositories"
	"context"

	"github.com/pkg/errors"
)

// ConsultationQueryService reads diagnosis history for the portal views.
type ConsultationQueryService struct {
	consultations *repositories.ConsultationRepository
}

func NewConsultationQueryService(consultations *repositories.ConsultationRepository) *ConsultationQueryService {
	return &ConsultationQueryService{consultations: consultations}
}

func (s *ConsultationQueryService) GetByID(ctx context.Context, patientID string, id uint) (*models.Consultation, error) {
	consultation, err := s.consultations.GetByID(ctx, patientID, id)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, errors.Wrap(ErrNotFound, "consultation does not exist")
	}
	return consultation, nil
}

func (s *ConsultationQueryService) ListByPatient(ctx context.Context, patientID string) ([]models.Consultation, error) {
	return s.consultations.ListByPatient(ctx, patientID)
}
